package imagesource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name  string
		ref   string
		want  string
		local bool
	}{
		{
			name:  "plain path is a local file",
			ref:   "/tmp/task.zip",
			want:  "/tmp/task.zip",
			local: true,
		},
		{
			name:  "relative path is a local file",
			ref:   "task.zip",
			want:  "task.zip",
			local: true,
		},
		{
			name: "oci scheme selects the registry",
			ref:  "oci://ghcr.io/acme/task:v1",
			want: "oci://ghcr.io/acme/task:v1",
		},
		{
			name: "bare registry reference keeps its form",
			ref:  "oci://acme/task:v1",
			want: "oci://acme/task:v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ParseRef(tt.ref, t.TempDir())
			if err != nil {
				t.Fatalf("ParseRef(%q): %v", tt.ref, err)
			}
			if _, ok := src.(*LocalFile); ok != tt.local {
				t.Errorf("ParseRef(%q) local = %v, want %v", tt.ref, ok, tt.local)
			}
			if got := src.Info(); got != tt.want {
				t.Errorf("Info() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalFileFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.zip")
	if err := os.WriteFile(path, []byte("zip-bytes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src := NewLocalFile(path)
	got, dgst, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != path {
		t.Errorf("path = %s, want %s", got, path)
	}
	if dgst.Algorithm().String() != "sha256" {
		t.Errorf("digest algorithm = %s", dgst.Algorithm())
	}

	// same content, same digest
	_, again, err := NewLocalFile(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if again != dgst {
		t.Errorf("digest not deterministic: %s vs %s", dgst, again)
	}
}

func TestLocalFileFetchMissing(t *testing.T) {
	src := NewLocalFile(filepath.Join(t.TempDir(), "missing.zip"))
	if _, _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected missing image to fail")
	}
}
