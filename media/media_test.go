package media

import (
	"strings"
	"testing"
)

func TestNewObjectNameScopesAndKeepsExtension(t *testing.T) {
	name := NewObjectName(7, 12, "Beach Day.JPG")
	if !strings.HasPrefix(name, "u7/a12/") {
		t.Fatalf("object name not scoped to owner and album: %q", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("extension not preserved lowercase: %q", name)
	}
	if strings.Contains(name, "Beach") {
		t.Fatalf("original file name leaked into object name: %q", name)
	}
}

func TestNewObjectNameIsUnique(t *testing.T) {
	a := NewObjectName(1, 1, "x.png")
	b := NewObjectName(1, 1, "x.png")
	if a == b {
		t.Fatalf("two uploads of the same file collided: %q", a)
	}
}

func TestThumbObjectName(t *testing.T) {
	cases := map[string]string{
		"u1/a2/abc.jpg": "u1/a2/abc_thumb.jpg",
		"u1/a2/abc.png": "u1/a2/abc_thumb.jpg",
		"u1/a2/abc":     "u1/a2/abc_thumb.jpg",
	}
	for in, want := range cases {
		if got := ThumbObjectName(in); got != want {
			t.Fatalf("ThumbObjectName(%q) = %q, want %q", in, got, want)
		}
	}
}
