package imagemeta

import (
	"path/filepath"
	"testing"

	"stockroom/internal/testsupport"
)

func TestReadPNGDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.png")
	testsupport.WritePNG(t, path, 1200, 800)

	dims, format, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if format != "png" {
		t.Fatalf("format = %q", format)
	}
	if dims.Width != 1200 || dims.Height != 800 {
		t.Fatalf("dims = %+v", dims)
	}
	if dims.ShortestEdge() != 800 {
		t.Fatalf("shortest edge = %d", dims.ShortestEdge())
	}
}

func TestReadRejectsNonImageContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.png")
	testsupport.WriteFile(t, path, []byte("definitely not a png"))

	if _, _, err := Read(path); err == nil {
		t.Fatal("expected decode error for non-image content")
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, _, err := Read(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
