package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stockroom/internal/catalog"
)

func newProductsCommand(ctx *commandContext) *cobra.Command {
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "Inspect and edit product drafts",
	}

	productsCmd.AddCommand(newProductsListCommand(ctx))
	productsCmd.AddCommand(newProductsShowCommand(ctx))
	productsCmd.AddCommand(newProductsSaveCommand(ctx))
	productsCmd.AddCommand(newProductsDeleteCommand(ctx))

	return productsCmd
}

func newProductsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List product drafts in the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			records, _, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list records: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No product drafts found")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.Slug,
					rec.Title,
					strconv.FormatFloat(rec.Price, 'f', -1, 64),
					strconv.FormatFloat(rec.Stock, 'f', -1, 64),
					strconv.FormatBool(rec.ForSale),
					strconv.Itoa(len(rec.ImagePaths)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"SLUG", "TITLE", "PRICE", "STOCK", "FOR SALE", "IMAGES"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d draft(s)\n", len(records))
			return nil
		},
	}
}

func newProductsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one product draft as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			rec, revision, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get record: %w", err)
			}
			out := cmd.OutOrStdout()
			if rec == nil {
				fmt.Fprintf(out, "No draft found for slug %q\n", args[0])
				return nil
			}

			encoded, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
			fmt.Fprintln(out, string(encoded))
			fmt.Fprintf(out, "Revision: %s\n", revision)
			return nil
		},
	}
}

func newProductsSaveCommand(ctx *commandContext) *cobra.Command {
	var filePath string
	var expectedRevision string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update a product draft from a JSON file",
		Long: "Reads a draft record as JSON from --file (or stdin when --file is \"-\")\n" +
			"and upserts it into the configured backend. Pass --expect-revision with\n" +
			"the revision from a previous read to fail instead of overwriting a\n" +
			"concurrent change.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var reader io.Reader
			switch strings.TrimSpace(filePath) {
			case "", "-":
				reader = cmd.InOrStdin()
			default:
				file, err := os.Open(filePath)
				if err != nil {
					return fmt.Errorf("open draft file: %w", err)
				}
				defer file.Close()
				reader = file
			}

			var rec catalog.Record
			decoder := json.NewDecoder(reader)
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&rec); err != nil {
				return fmt.Errorf("parse draft JSON: %w", err)
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}

			return ctx.withLock(func() error {
				saved, revision, err := st.Upsert(cmd.Context(), rec, expectedRevision)
				if err != nil {
					return fmt.Errorf("save draft: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Saved %q (id %s)\n", saved.Slug, saved.ID)
				fmt.Fprintf(out, "Revision: %s\n", revision)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Draft JSON file (defaults to stdin)")
	cmd.Flags().StringVar(&expectedRevision, "expect-revision", "", "Fail unless the stored revision matches")
	return cmd
}

func newProductsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a product draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			return ctx.withLock(func() error {
				deleted, err := st.Delete(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("delete draft: %w", err)
				}
				out := cmd.OutOrStdout()
				if deleted {
					fmt.Fprintf(out, "Deleted %q\n", args[0])
				} else {
					fmt.Fprintf(out, "No draft found for slug %q\n", args[0])
				}
				return nil
			})
		},
	}
}
