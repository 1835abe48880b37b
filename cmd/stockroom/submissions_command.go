package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stockroom/internal/submission/history"
)

func newSubmissionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submissions",
		Short: "List previously packaged submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open submission history: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list submission history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No submissions recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				created := ""
				if !entry.CreatedAt.IsZero() {
					created = entry.CreatedAt.Local().Format(time.RFC3339)
				}
				rows = append(rows, []string{
					entry.SubmissionID,
					created,
					entry.Backend,
					strconv.Itoa(entry.Products),
					strconv.Itoa(entry.Images),
					strconv.FormatInt(entry.Bytes, 10),
					entry.SuggestedKey,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "CREATED", "BACKEND", "PRODUCTS", "IMAGES", "BYTES", "SUGGESTED KEY"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
