package pathglob

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func fixtureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "shots", "front.png"))
	writeFixture(t, filepath.Join(root, "shots", "back.png"))
	writeFixture(t, filepath.Join(root, "shots", "detail", "cuff.png"))
	writeFixture(t, filepath.Join(root, "notes.txt"))
	return root
}

func TestExpandLiteralPath(t *testing.T) {
	root := fixtureRoot(t)
	got, err := Expand("shots/front.png", root, Options{AllowedRoots: []string{root}})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "front.png" {
		t.Fatalf("got %v", got)
	}
}

func TestExpandGlobSortsMatches(t *testing.T) {
	root := fixtureRoot(t)
	got, err := Expand("shots/*.png", root, Options{AllowedRoots: []string{root}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if filepath.Base(got[0]) != "back.png" || filepath.Base(got[1]) != "front.png" {
		t.Fatalf("not sorted: %v", got)
	}
}

func TestExpandRecursiveMatchesSubdirectories(t *testing.T) {
	root := fixtureRoot(t)
	got, err := Expand("shots/*.png", root, Options{Recursive: true, AllowedRoots: []string{root}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected nested match too, got %v", got)
	}
}

func TestExpandTraversalYieldsZeroMatches(t *testing.T) {
	root := fixtureRoot(t)
	outside := filepath.Join(filepath.Dir(root), "secret.png")
	writeFixture(t, outside)
	t.Cleanup(func() { os.Remove(outside) })

	for _, spec := range []string{
		"../secret.png",
		"shots/../../secret.png",
		outside,
	} {
		got, err := Expand(spec, root, Options{AllowedRoots: []string{root}})
		if err != nil {
			t.Fatalf("Expand(%q) errored: %v", spec, err)
		}
		if len(got) != 0 {
			t.Fatalf("Expand(%q) escaped the sandbox: %v", spec, got)
		}
	}
}

func TestExpandNoAllowedRootsMatchesNothing(t *testing.T) {
	root := fixtureRoot(t)
	got, err := Expand("shots/front.png", root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestExpandScanLimit(t *testing.T) {
	root := fixtureRoot(t)
	_, err := Expand("shots/*.png", root, Options{
		Recursive:       true,
		AllowedRoots:    []string{root},
		MaxFilesScanned: 1,
	})
	if !errors.Is(err, ErrScanLimit) {
		t.Fatalf("expected ErrScanLimit, got %v", err)
	}
}

func TestExpandMatchCap(t *testing.T) {
	root := fixtureRoot(t)
	got, err := Expand("shots/*.png", root, Options{
		AllowedRoots: []string{root},
		MaxMatches:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("cap not applied: %v", got)
	}
}

func TestExpandMissingFileIsEmpty(t *testing.T) {
	root := fixtureRoot(t)
	got, err := Expand("shots/missing.png", root, Options{AllowedRoots: []string{root}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v", got)
	}
	if strings.Contains(strings.Join(got, ""), "missing") {
		t.Fatal("phantom match")
	}
}
