package submission

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stockroom/internal/catalog"
	"stockroom/internal/testsupport"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("fixed-id-%08d", n)
	}
}

func packagingRecord(slug string, imagePaths ...string) catalog.Record {
	return catalog.Record{
		Slug:            slug,
		Title:           "Product " + slug,
		CollectionTitle: "Outerwear",
		Price:           189,
		Taxonomy: catalog.Taxonomy{
			Department:  "women",
			Category:    "clothing",
			Subcategory: "jackets",
		},
		ImagePaths: imagePaths,
	}
}

func baseOptions(root string) Options {
	return Options{
		MaxProducts:       25,
		MaxBytes:          200 << 20,
		MaxImageBytes:     20 << 20,
		MinImageEdge:      100,
		ImageRoots:        []string{root},
		MaxFilesScanned:   5000,
		MaxMatchesPerSpec: 40,
		Now:               fixedNow,
		NewID:             sequentialIDs(),
	}
}

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("invalid zip output: %v", err)
	}
	entries := map[string][]byte{}
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatal(err)
		}
		rc.Close()
		entries[file.Name] = buf.Bytes()
	}
	return entries
}

func TestPackageTwoProductsTwoImages(t *testing.T) {
	root := t.TempDir()
	testsupport.WritePNG(t, filepath.Join(root, "jacket", "front.png"), 400, 300)
	testsupport.WritePNG(t, filepath.Join(root, "scarf", "front.png"), 400, 300)

	records := []catalog.Record{
		packagingRecord("studio-jacket", "jacket/front.png"),
		packagingRecord("silk-scarf", "scarf/front.png"),
	}

	var out bytes.Buffer
	manifest, err := Package(context.Background(), &out, records, baseOptions(root))
	if err != nil {
		t.Fatalf("Package failed: %v", err)
	}

	if manifest.Totals.Products != 2 || manifest.Totals.Images != 2 {
		t.Fatalf("totals = %+v", manifest.Totals)
	}
	if manifest.Totals.Bytes <= 0 {
		t.Fatal("expected a positive byte total")
	}
	if manifest.SuggestedKey != "submissions/2026-03-14/incoming."+manifest.SubmissionID+".zip" {
		t.Fatalf("suggested key = %q", manifest.SuggestedKey)
	}
	if manifest.Filename() != "submission-"+manifest.SubmissionID+".zip" {
		t.Fatalf("filename = %q", manifest.Filename())
	}

	entries := readArchive(t, out.Bytes())
	if _, ok := entries["products.csv"]; !ok {
		t.Fatal("products.csv missing from archive")
	}
	if _, ok := entries["manifest.json"]; !ok {
		t.Fatal("manifest.json missing from archive")
	}
	imageEntries := 0
	for name := range entries {
		if strings.HasPrefix(name, "images/") {
			imageEntries++
			if strings.Contains(name, "front") {
				t.Fatalf("original file name leaked into archive: %s", name)
			}
		}
	}
	if imageEntries != 2 {
		t.Fatalf("expected 2 image entries, got %d", imageEntries)
	}

	var embedded Manifest
	if err := json.Unmarshal(entries["manifest.json"], &embedded); err != nil {
		t.Fatalf("embedded manifest invalid: %v", err)
	}
	if embedded.SubmissionID != manifest.SubmissionID {
		t.Fatal("embedded manifest differs from returned manifest")
	}

	table := string(entries["products.csv"])
	if strings.Contains(table, "jacket/front.png") {
		t.Fatal("row table should list in-archive paths only")
	}
	if !strings.Contains(table, "images/studio-jacket/") {
		t.Fatalf("row table missing archive paths:\n%s", table)
	}
}

func TestPackageTooManyProductsFailsBeforeIO(t *testing.T) {
	records := []catalog.Record{
		packagingRecord("a-one", "missing/one.png"),
		packagingRecord("b-two", "missing/two.png"),
	}
	opts := baseOptions(t.TempDir())
	opts.MaxProducts = 1

	var out bytes.Buffer
	_, err := Package(context.Background(), &out, records, opts)
	if !errors.Is(err, ErrPackaging) {
		t.Fatalf("expected ErrPackaging, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatal("no bytes should be written on a count failure")
	}
}

func TestPackageEmptySelectionRejected(t *testing.T) {
	var out bytes.Buffer
	if _, err := Package(context.Background(), &out, nil, baseOptions(t.TempDir())); !errors.Is(err, ErrPackaging) {
		t.Fatalf("expected ErrPackaging, got %v", err)
	}
}

func TestPackageByteBudgetAbortsWithNoOutput(t *testing.T) {
	root := t.TempDir()
	testsupport.WritePNG(t, filepath.Join(root, "jacket", "front.png"), 400, 300)
	testsupport.WritePNG(t, filepath.Join(root, "jacket", "back.png"), 400, 300)

	opts := baseOptions(root)
	opts.MaxBytes = 10

	var out bytes.Buffer
	_, err := Package(context.Background(), &out,
		[]catalog.Record{packagingRecord("studio-jacket", "jacket/front.png", "jacket/back.png")}, opts)
	if !errors.Is(err, ErrPackaging) {
		t.Fatalf("expected ErrPackaging, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatal("aborted packaging must not emit a partial archive")
	}
}

func TestPackageBudgetCoversTableAndManifest(t *testing.T) {
	opts := baseOptions(t.TempDir())
	opts.MaxBytes = 10

	var out bytes.Buffer
	_, err := Package(context.Background(), &out,
		[]catalog.Record{packagingRecord("studio-jacket")}, opts)
	if !errors.Is(err, ErrPackaging) {
		t.Fatalf("expected ErrPackaging, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatal("no bytes should be written when the table blows the budget")
	}
}

func TestPackageTraversalSpecFails(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "outside.png")
	testsupport.WritePNG(t, outside, 400, 300)

	var out bytes.Buffer
	_, err := Package(context.Background(), &out,
		[]catalog.Record{packagingRecord("studio-jacket", "../outside.png")}, baseOptions(root))

	var perr *PackagingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PackagingError, got %v", err)
	}
	if perr.Product != "studio-jacket" {
		t.Fatalf("error should name the product: %+v", perr)
	}
	if out.Len() != 0 {
		t.Fatal("no output on traversal rejection")
	}
}

func TestPackageUndersizedImageRejected(t *testing.T) {
	root := t.TempDir()
	testsupport.WritePNG(t, filepath.Join(root, "jacket", "front.png"), 50, 40)

	var out bytes.Buffer
	_, err := Package(context.Background(), &out,
		[]catalog.Record{packagingRecord("studio-jacket", "jacket/front.png")}, baseOptions(root))

	var perr *PackagingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PackagingError, got %v", err)
	}
	if !strings.Contains(perr.Reason, "shortest edge") {
		t.Fatalf("reason = %q", perr.Reason)
	}
}

func TestPackageRenamedTextFileRejected(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "jacket", "front.png"), []byte("just text"))

	var out bytes.Buffer
	_, err := Package(context.Background(), &out,
		[]catalog.Record{packagingRecord("studio-jacket", "jacket/front.png")}, baseOptions(root))
	if !errors.Is(err, ErrPackaging) {
		t.Fatalf("expected ErrPackaging, got %v", err)
	}
}

func TestPackageGlobSpecExpandsAndAlignsAlts(t *testing.T) {
	root := t.TempDir()
	testsupport.WritePNG(t, filepath.Join(root, "jacket", "a.png"), 400, 300)
	testsupport.WritePNG(t, filepath.Join(root, "jacket", "b.png"), 400, 300)

	rec := packagingRecord("studio-jacket", "jacket/*.png")
	rec.ImageAlts = []string{"Jacket shots"}

	var out bytes.Buffer
	manifest, err := Package(context.Background(), &out, []catalog.Record{rec}, baseOptions(root))
	if err != nil {
		t.Fatalf("Package failed: %v", err)
	}
	if manifest.Totals.Images != 2 {
		t.Fatalf("totals = %+v", manifest.Totals)
	}

	entries := readArchive(t, out.Bytes())
	table := string(entries["products.csv"])
	if !strings.Contains(table, "Jacket shots|Jacket shots") {
		t.Fatalf("alt text not aligned per expanded file:\n%s", table)
	}
}

func TestPackageKeepsAltAlignmentWithLeadingEmpty(t *testing.T) {
	root := t.TempDir()
	testsupport.WritePNG(t, filepath.Join(root, "jacket", "front.png"), 400, 300)
	testsupport.WritePNG(t, filepath.Join(root, "jacket", "back.png"), 400, 300)

	rec := packagingRecord("studio-jacket", "jacket/front.png", "jacket/back.png")
	rec.ImageAlts = []string{"", "Back view"}

	var out bytes.Buffer
	if _, err := Package(context.Background(), &out, []catalog.Record{rec}, baseOptions(root)); err != nil {
		t.Fatalf("Package failed: %v", err)
	}

	entries := readArchive(t, out.Bytes())
	table := string(entries["products.csv"])
	if !strings.Contains(table, "|Back view") {
		t.Fatalf("alt for the second image lost its position:\n%s", table)
	}
	if strings.Contains(table, "Back view|") {
		t.Fatalf("alt shifted onto the first image:\n%s", table)
	}
}

func TestPackageRowsOnlySkipsFileChecks(t *testing.T) {
	records := []catalog.Record{
		packagingRecord("studio-jacket", "nonexistent/one.png"),
		packagingRecord("silk-scarf"),
	}

	var out bytes.Buffer
	manifest, err := PackageRowsOnly(context.Background(), &out, records, baseOptions(t.TempDir()))
	if err != nil {
		t.Fatalf("PackageRowsOnly failed: %v", err)
	}
	if manifest.Totals.Products != 2 || manifest.Totals.Images != 0 {
		t.Fatalf("totals = %+v", manifest.Totals)
	}

	entries := readArchive(t, out.Bytes())
	if len(entries) != 2 {
		t.Fatalf("rows-only archive should hold exactly products.csv and manifest.json, got %v", len(entries))
	}
}

func TestPackageRowsOnlyEnforcesCountBound(t *testing.T) {
	opts := baseOptions(t.TempDir())
	opts.MaxProducts = 1
	var out bytes.Buffer
	_, err := PackageRowsOnly(context.Background(), &out, []catalog.Record{
		packagingRecord("a-one"),
		packagingRecord("b-two"),
	}, opts)
	if !errors.Is(err, ErrPackaging) {
		t.Fatalf("expected ErrPackaging, got %v", err)
	}
}
