package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"stockroom/internal/catalog"
	"stockroom/internal/fileutil"
	"stockroom/internal/submission"
	"stockroom/internal/submission/history"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var outDir string
	var rowsOnly bool

	cmd := &cobra.Command{
		Use:   "submit <slug>...",
		Short: "Package selected drafts and their images into a submission archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}

			records := make([]catalog.Record, 0, len(args))
			for _, slug := range args {
				rec, _, err := st.Get(cmd.Context(), slug)
				if err != nil {
					return fmt.Errorf("get record %q: %w", slug, err)
				}
				if rec == nil {
					return fmt.Errorf("no draft found for slug %q", slug)
				}
				records = append(records, *rec)
			}

			opts := submission.Options{
				MaxProducts:       cfg.Submission.MaxProducts,
				MaxBytes:          cfg.Submission.MaxBytes,
				MaxImageBytes:     cfg.Submission.MaxImageBytes,
				MinImageEdge:      cfg.Submission.MinImageEdge,
				ImageRoots:        cfg.Paths.ImageRoots,
				MaxFilesScanned:   cfg.Submission.MaxFilesScanned,
				MaxMatchesPerSpec: cfg.Submission.MaxMatchesPerSpec,
				ToolName:          toolName,
				ToolVersion:       toolVersion,
				Logger:            ctx.loggerValue(),
			}

			// The snapshot backend has no local filesystem behind its image
			// specs, so only the row table travels.
			reduced := rowsOnly || cfg.Store.Backend == "snapshot"

			target := outDir
			if target == "" {
				target = filepath.Join(cfg.Paths.DataDir, "submissions")
			}

			var manifest *submission.Manifest
			// Package into a staging name first; the manifest carries the
			// submission id the final name is derived from.
			staging := filepath.Join(target, "submission.zip")
			err = fileutil.WriteAtomicFunc(staging, 0o644, func(w io.Writer) error {
				var packageErr error
				if reduced {
					manifest, packageErr = submission.PackageRowsOnly(cmd.Context(), w, records, opts)
				} else {
					manifest, packageErr = submission.Package(cmd.Context(), w, records, opts)
				}
				return packageErr
			})
			if err != nil {
				return fmt.Errorf("package submission: %w", err)
			}

			finalPath := filepath.Join(target, manifest.Filename())
			if err := os.Rename(staging, finalPath); err != nil {
				return fmt.Errorf("rename archive into place: %w", err)
			}

			if err := recordHistory(cmd.Context(), ctx, cfg.Store.Backend, manifest); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Packaged %d product(s), %d image(s), %d byte(s) of images\n",
				manifest.Totals.Products, manifest.Totals.Images, manifest.Totals.Bytes)
			fmt.Fprintf(out, "Archive: %s\n", finalPath)
			fmt.Fprintf(out, "Suggested key: %s\n", manifest.SuggestedKey)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to <data_dir>/submissions)")
	cmd.Flags().BoolVar(&rowsOnly, "rows-only", false, "Package only the row table and manifest, no images")
	return cmd
}

func recordHistory(cmdCtx context.Context, ctx *commandContext, backend string, manifest *submission.Manifest) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open submission history: %w", err)
	}
	defer store.Close()

	if err := store.Record(cmdCtx, manifest, backend); err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}
