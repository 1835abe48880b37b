package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"stockroom/internal/artifact"
	"stockroom/internal/fileutil"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Derive publish artifacts from the draft store",
	}
	catalogCmd.AddCommand(newCatalogBuildCommand(ctx))
	return catalogCmd
}

func newCatalogBuildCommand(ctx *commandContext) *cobra.Command {
	var outDir string
	var strict bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build catalog.json and media-index.json from the current drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			records, _, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list records: %w", err)
			}

			result, err := artifact.Build(records, artifact.Options{
				Rates:  cfg.Catalog.CurrencyRates,
				Strict: strict || cfg.Catalog.Strict,
				Source: cfg.Store.Backend + "://" + cfg.Snapshot.Scope,
			})
			if err != nil {
				return fmt.Errorf("build catalog: %w", err)
			}

			target := outDir
			if target == "" {
				target = filepath.Join(cfg.Paths.DataDir, "catalog")
			}
			if err := writeJSON(filepath.Join(target, "catalog.json"), result.Catalog); err != nil {
				return err
			}
			if err := writeJSON(filepath.Join(target, "media-index.json"), result.MediaIndex); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Built catalog with %d product(s), %d media item(s)\n",
				result.MediaIndex.Totals.Products, result.MediaIndex.Totals.Media)
			fmt.Fprintf(out, "Artifacts written to %s\n", target)
			for _, warning := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to <data_dir>/catalog)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a record resolves zero images")
	return cmd
}

func writeJSON(path string, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := fileutil.WriteAtomic(path, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
