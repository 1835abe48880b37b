// Package submission packages a bounded set of draft records plus their
// validated images into a single zip archive for manual handoff.
//
// Package works in two phases. The plan phase expands and validates every
// image before a single archive byte is written, so a failed check never
// leaves the caller with a truncated stream. The stream phase then copies
// one file at a time into the zip writer, keeping peak memory at one open
// file regardless of submission size.
package submission

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockroom/internal/catalog"
	"stockroom/internal/catalog/rowmap"
	"stockroom/internal/imagemeta"
	"stockroom/internal/logging"
	"stockroom/internal/pathglob"
)

// Options bounds one packaging call.
type Options struct {
	// MaxProducts caps the record count; at least one record is required.
	MaxProducts int
	// MaxBytes caps the cumulative uncompressed size of everything going
	// into the archive, the row table and manifest included. Image bytes
	// are checked incrementally during planning; the final check runs
	// before the first archive byte is written.
	MaxBytes int64
	// MaxImageBytes caps each individual image file.
	MaxImageBytes int64
	// MinImageEdge is the minimum shortest-edge pixel size per image.
	MinImageEdge int
	// ImageRoots is the sandbox image specs may resolve inside.
	ImageRoots []string
	// BaseDir resolves relative specs; defaults to the first image root.
	BaseDir string
	// Recursive lets specs match files in subdirectories.
	Recursive bool
	// MaxFilesScanned and MaxMatchesPerSpec bound spec expansion.
	MaxFilesScanned   int
	MaxMatchesPerSpec int

	// Tool identity embedded in the manifest; defaults to stockroom/dev.
	ToolName    string
	ToolVersion string

	// Now and NewID exist for deterministic tests.
	Now   func() time.Time
	NewID func() string

	Logger *slog.Logger
}

type plannedFile struct {
	sourcePath  string
	archivePath string
	size        int64
}

type plannedProduct struct {
	row   rowmap.Row
	files []plannedFile
	slug  string
}

// Package validates and streams records plus their images into w as a zip
// archive holding products.csv, manifest.json, and one opaque-named entry
// per image under images/<slug>/. Nothing is written to w until every
// check has passed.
func Package(ctx context.Context, w io.Writer, records []catalog.Record, opts Options) (*Manifest, error) {
	logger := logging.NewComponentLogger(opts.Logger, "packager")
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	if err := checkProductCount(len(records), opts.MaxProducts); err != nil {
		return nil, err
	}

	baseDir := opts.BaseDir
	if baseDir == "" && len(opts.ImageRoots) > 0 {
		baseDir = opts.ImageRoots[0]
	}

	var totalBytes int64
	planned := make([]plannedProduct, 0, len(records))
	for i, input := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNumber := i + 1

		rec, err := catalog.NewRecord(input)
		if err != nil {
			return nil, packagingErr(rowNumber, input.Slug, "", "record failed validation", err)
		}

		product := plannedProduct{slug: rec.Slug}
		var archivePaths, archiveAlts, archiveRoles []string
		for specIndex, spec := range rec.ImagePaths {
			matches, err := pathglob.Expand(spec, baseDir, pathglob.Options{
				Recursive:       opts.Recursive,
				AllowedRoots:    opts.ImageRoots,
				MaxFilesScanned: opts.MaxFilesScanned,
				MaxMatches:      opts.MaxMatchesPerSpec,
			})
			if err != nil {
				return nil, packagingErr(rowNumber, rec.Slug, spec, "image spec expansion failed", err)
			}
			if len(matches) == 0 {
				return nil, packagingErr(rowNumber, rec.Slug, spec, "image spec matched no files inside the allowed roots", nil)
			}

			for _, match := range matches {
				size, err := validateImageFile(rowNumber, rec.Slug, match, opts)
				if err != nil {
					return nil, err
				}
				totalBytes += size
				if opts.MaxBytes > 0 && totalBytes > opts.MaxBytes {
					return nil, packagingErr(rowNumber, rec.Slug, match, fmt.Sprintf("submission exceeds the %d byte budget", opts.MaxBytes), nil)
				}

				ext := strings.ToLower(filepath.Ext(match))
				archivePath := path.Join("images", rec.Slug, newID()+ext)
				product.files = append(product.files, plannedFile{
					sourcePath:  match,
					archivePath: archivePath,
					size:        size,
				})
				archivePaths = append(archivePaths, archivePath)
				if specIndex < len(rec.ImageAlts) {
					archiveAlts = append(archiveAlts, rec.ImageAlts[specIndex])
				} else {
					archiveAlts = append(archiveAlts, "")
				}
				if specIndex < len(rec.ImageRoles) {
					archiveRoles = append(archiveRoles, rec.ImageRoles[specIndex])
				} else {
					archiveRoles = append(archiveRoles, "")
				}
			}
		}

		// The emitted row must list only in-archive paths; the original
		// filesystem paths never leave the machine.
		rec.ImagePaths = archivePaths
		rec.ImageAlts = trimTrailingEmpties(archiveAlts)
		rec.ImageRoles = trimTrailingEmpties(archiveRoles)
		row, err := rowmap.ToRow(rec, nil)
		if err != nil {
			return nil, packagingErr(rowNumber, rec.Slug, "", "record failed validation", err)
		}
		product.row = row
		planned = append(planned, product)
	}

	manifest := buildManifest(planned, totalBytes, now(), newID(), opts)

	tableBytes, err := renderTable(planned)
	if err != nil {
		return nil, err
	}
	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if opts.MaxBytes > 0 && totalBytes+int64(len(tableBytes))+int64(len(manifestBytes)) > opts.MaxBytes {
		return nil, packagingErr(0, "", "", fmt.Sprintf("submission exceeds the %d byte budget", opts.MaxBytes), nil)
	}

	if err := streamArchive(ctx, w, tableBytes, manifestBytes, planned); err != nil {
		return nil, err
	}

	logger.Info("submission packaged",
		logging.String("submission_id", manifest.SubmissionID),
		logging.Int("products", manifest.Totals.Products),
		logging.Int("images", manifest.Totals.Images),
		logging.Int64("bytes", manifest.Totals.Bytes))
	return manifest, nil
}

// PackageRowsOnly is the reduced variant for record sources with no local
// filesystem access: the archive holds only products.csv and manifest.json.
// Count and byte bounds still apply; file and image checks are skipped.
func PackageRowsOnly(ctx context.Context, w io.Writer, records []catalog.Record, opts Options) (*Manifest, error) {
	logger := logging.NewComponentLogger(opts.Logger, "packager")
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	if err := checkProductCount(len(records), opts.MaxProducts); err != nil {
		return nil, err
	}

	planned := make([]plannedProduct, 0, len(records))
	for i, input := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := catalog.NewRecord(input)
		if err != nil {
			return nil, packagingErr(i+1, input.Slug, "", "record failed validation", err)
		}
		row, err := rowmap.ToRow(rec, nil)
		if err != nil {
			return nil, packagingErr(i+1, rec.Slug, "", "record failed validation", err)
		}
		planned = append(planned, plannedProduct{slug: rec.Slug, row: row})
	}

	tableBytes, err := renderTable(planned)
	if err != nil {
		return nil, err
	}
	manifest := buildManifest(planned, 0, now(), newID(), opts)
	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if opts.MaxBytes > 0 && int64(len(tableBytes))+int64(len(manifestBytes)) > opts.MaxBytes {
		return nil, packagingErr(0, "", "", fmt.Sprintf("submission exceeds the %d byte budget", opts.MaxBytes), nil)
	}

	if err := streamArchive(ctx, w, tableBytes, manifestBytes, nil); err != nil {
		return nil, err
	}

	logger.Info("rows-only submission packaged",
		logging.String("submission_id", manifest.SubmissionID),
		logging.Int("products", manifest.Totals.Products))
	return manifest, nil
}

func checkProductCount(count, maxProducts int) error {
	if count == 0 {
		return packagingErr(0, "", "", "no records selected", nil)
	}
	if maxProducts > 0 && count > maxProducts {
		return packagingErr(0, "", "", fmt.Sprintf("%d records selected, limit is %d", count, maxProducts), nil)
	}
	return nil
}

func validateImageFile(rowNumber int, slug, match string, opts Options) (int64, error) {
	info, err := os.Stat(match)
	if err != nil {
		return 0, packagingErr(rowNumber, slug, match, "image file unreadable", err)
	}
	if !info.Mode().IsRegular() {
		return 0, packagingErr(rowNumber, slug, match, "not a regular file", nil)
	}
	if info.Size() == 0 {
		return 0, packagingErr(rowNumber, slug, match, "image file is empty", nil)
	}
	if opts.MaxImageBytes > 0 && info.Size() > opts.MaxImageBytes {
		return 0, packagingErr(rowNumber, slug, match, fmt.Sprintf("image exceeds the %d byte per-file limit", opts.MaxImageBytes), nil)
	}

	dims, _, err := imagemeta.Read(match)
	if err != nil {
		return 0, packagingErr(rowNumber, slug, match, "not a decodable image", err)
	}
	if opts.MinImageEdge > 0 && dims.ShortestEdge() < opts.MinImageEdge {
		return 0, packagingErr(rowNumber, slug, match,
			fmt.Sprintf("shortest edge %dpx is below the %dpx minimum", dims.ShortestEdge(), opts.MinImageEdge), nil)
	}
	return info.Size(), nil
}

func buildManifest(planned []plannedProduct, imageBytes int64, createdAt time.Time, submissionID string, opts Options) *Manifest {
	toolName := opts.ToolName
	if toolName == "" {
		toolName = "stockroom"
	}
	toolVersion := opts.ToolVersion
	if toolVersion == "" {
		toolVersion = "dev"
	}

	products := make([]ManifestProduct, 0, len(planned))
	images := 0
	for _, product := range planned {
		products = append(products, ManifestProduct{Slug: product.slug, Images: len(product.files)})
		images += len(product.files)
	}

	return &Manifest{
		SubmissionID: submissionID,
		CreatedAt:    createdAt.UTC().Format(time.RFC3339),
		SuggestedKey: suggestedKey(createdAt, submissionID),
		Tool:         Tool{Name: toolName, Version: toolVersion},
		Products:     products,
		Totals: ManifestTotals{
			Products: len(planned),
			Images:   images,
			Bytes:    imageBytes,
		},
	}
}

func renderTable(planned []plannedProduct) ([]byte, error) {
	rows := make([]rowmap.Row, 0, len(planned))
	for _, product := range planned {
		rows = append(rows, product.row)
	}
	header := rowmap.HeaderFor(rows)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write row table header: %w", err)
	}
	cells := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			cells[i] = row[col]
		}
		if err := writer.Write(cells); err != nil {
			return nil, fmt.Errorf("write row table row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush row table: %w", err)
	}
	return buf.Bytes(), nil
}

func streamArchive(ctx context.Context, w io.Writer, tableBytes, manifestBytes []byte, planned []plannedProduct) error {
	archive := zip.NewWriter(w)

	table, err := archive.Create("products.csv")
	if err != nil {
		return fmt.Errorf("create products.csv entry: %w", err)
	}
	if _, err := table.Write(tableBytes); err != nil {
		return fmt.Errorf("write products.csv: %w", err)
	}

	manifest, err := archive.Create("manifest.json")
	if err != nil {
		return fmt.Errorf("create manifest.json entry: %w", err)
	}
	if _, err := manifest.Write(manifestBytes); err != nil {
		return fmt.Errorf("write manifest.json: %w", err)
	}

	for _, product := range planned {
		for _, file := range product.files {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := copyIntoArchive(archive, file); err != nil {
				return err
			}
		}
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func copyIntoArchive(archive *zip.Writer, file plannedFile) error {
	source, err := os.Open(file.sourcePath)
	if err != nil {
		return fmt.Errorf("open image %s: %w", file.sourcePath, err)
	}
	defer source.Close()

	entry, err := archive.Create(file.archivePath)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", file.archivePath, err)
	}
	if _, err := io.Copy(entry, source); err != nil {
		return fmt.Errorf("copy image %s: %w", file.sourcePath, err)
	}
	return nil
}

func trimTrailingEmpties(values []string) []string {
	end := len(values)
	for end > 0 && values[end-1] == "" {
		end--
	}
	return values[:end]
}
