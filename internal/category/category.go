package category

import (
	"path/filepath"
	"strings"
)

// Category labels a file based solely on its extension.
type Category string

const (
	// Graphics represents raster image files.
	Graphics Category = "graphics"
	// LightBurn represents LightBurn project files.
	LightBurn Category = "lightburn"
	// Vector represents vector design files.
	Vector Category = "vector"
)

// All lists every supported category in a stable order.
var All = []Category{Graphics, LightBurn, Vector}

// Extensions maps lowercase file extensions (with leading dot) to their
// category. Extending the system means adding entries here; categories
// are never created from runtime data.
var Extensions = map[string]Category{
	// Graphics files
	".jpg":  Graphics,
	".jpeg": Graphics,
	".png":  Graphics,
	".gif":  Graphics,
	".bmp":  Graphics,
	".tiff": Graphics,
	".tif":  Graphics,
	".webp": Graphics,
	".ico":  Graphics,

	// LightBurn files
	".lbrn":  LightBurn,
	".lbrn2": LightBurn,

	// Vector design files
	".ai":  Vector,
	".svg": Vector,
	".eps": Vector,
}

// Classify returns the category for a path based on its extension, and
// whether the extension is supported. Matching is case-insensitive and
// extension-less paths are unsupported.
func Classify(path string) (Category, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	c, ok := Extensions[ext]
	return c, ok
}

// Parse converts a category name to a Category. The second return value
// reports whether the name is one of the supported categories.
func Parse(name string) (Category, bool) {
	c := Category(strings.ToLower(name))
	for _, known := range All {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	_, ok := Parse(string(c))
	return ok
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }
