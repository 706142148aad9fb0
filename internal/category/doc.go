// Package category defines the closed set of file categories and the
// extension lookup used to classify files. Classification is purely
// extension based; file contents are never inspected.
package category
