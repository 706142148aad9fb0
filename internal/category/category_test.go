package category

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected Category
		ok       bool
	}{
		{name: "jpg", path: "photo.jpg", expected: Graphics, ok: true},
		{name: "jpeg", path: "photo.jpeg", expected: Graphics, ok: true},
		{name: "png", path: "logo.png", expected: Graphics, ok: true},
		{name: "uppercase extension", path: "PHOTO.JPG", expected: Graphics, ok: true},
		{name: "mixed case extension", path: "scan.TiFf", expected: Graphics, ok: true},
		{name: "lightburn v1", path: "project.lbrn", expected: LightBurn, ok: true},
		{name: "lightburn v2", path: "project.lbrn2", expected: LightBurn, ok: true},
		{name: "svg", path: "design.svg", expected: Vector, ok: true},
		{name: "illustrator", path: "art.ai", expected: Vector, ok: true},
		{name: "eps", path: "print.eps", expected: Vector, ok: true},
		{name: "unsupported extension", path: "notes.txt", ok: false},
		{name: "no extension", path: "Makefile", ok: false},
		{name: "trailing dot", path: "weird.", ok: false},
		{name: "full path", path: "/home/user/images/a.png", expected: Graphics, ok: true},
		{name: "hidden file with supported extension", path: ".hidden.png", expected: Graphics, ok: true},
		{name: "extension only considers last segment", path: "archive.tar.svg", expected: Vector, ok: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Classify(tt.path)
			if ok != tt.ok {
				t.Fatalf("Classify(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	t.Parallel()

	// Same file name in different extension casings must agree.
	lower, okLower := Classify("x.jpg")
	upper, okUpper := Classify("x.JPG")
	if !okLower || !okUpper {
		t.Fatal("both casings should classify")
	}
	if lower != upper {
		t.Errorf("case sensitivity: %v != %v", lower, upper)
	}
	if lower != Graphics {
		t.Errorf("Classify(x.jpg) = %v, want graphics", lower)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected Category
		ok       bool
	}{
		{name: "graphics", input: "graphics", expected: Graphics, ok: true},
		{name: "lightburn", input: "lightburn", expected: LightBurn, ok: true},
		{name: "vector", input: "vector", expected: Vector, ok: true},
		{name: "case insensitive", input: "Vector", expected: Vector, ok: true},
		{name: "unknown", input: "audio", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Parse(tt.input)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEveryExtensionMapsToValidCategory(t *testing.T) {
	t.Parallel()

	for ext, c := range Extensions {
		if !c.Valid() {
			t.Errorf("extension %s maps to unknown category %q", ext, c)
		}
	}
}
