// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-harvester/internal/ledger"
	"github.com/pdiddy/pdf-harvester/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show recent harvest runs recorded in the ledger",
	Long: `Report lists harvest runs from the SQLite ledger, newest first.
With --run, it lists every per-URL outcome of one run instead.
Output is plain text by default; --format yaml emits machine-readable YAML.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Int("limit", 0, "maximum runs to show (default 10)")
	reportCmd.Flags().String("run", "", "show the outcomes of one run ID")
	reportCmd.Flags().String("format", "text", "output format: text or yaml")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	path := ledgerPath(cmd)
	if path == "" {
		return fmt.Errorf("no ledger configured (--ledger or ledger_path in the config file)")
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "yaml" {
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}

	store, err := ledger.NewStore(types.LedgerConfig{Path: path})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		outcomes, err := store.Outcomes(ctx, runID)
		if err != nil {
			return err
		}
		return printOutcomes(outcomes, format)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	return printRuns(runs, format)
}

func printRuns(runs []types.RunRecord, format string) error {
	if format == "yaml" {
		data, err := yaml.Marshal(runs)
		if err != nil {
			return fmt.Errorf("marshaling runs: %w", err)
		}
		os.Stdout.Write(data)
		return nil
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %s\n", r.StartedAt.Local().Format(time.DateTime), r.ID, r.SeedURL)
		fmt.Printf("    %d downloaded, %d already present, %d not PDF, %d failed, %d ignored\n",
			r.Downloaded, r.SkippedExisting, r.SkippedNotPDF, r.Failed, r.IgnoredAbsolute)
	}
	return nil
}

func printOutcomes(outcomes []types.Outcome, format string) error {
	if format == "yaml" {
		data, err := yaml.Marshal(outcomes)
		if err != nil {
			return fmt.Errorf("marshaling outcomes: %w", err)
		}
		os.Stdout.Write(data)
		return nil
	}

	if len(outcomes) == 0 {
		fmt.Println("No outcomes recorded for that run.")
		return nil
	}
	for _, o := range outcomes {
		switch o.Kind {
		case types.OutcomeDownloaded, types.OutcomeSkippedExisting:
			fmt.Printf("%-16s  %s  %s\n", o.Kind, o.Filename, o.URL)
		default:
			fmt.Printf("%-16s  %s  %s\n", o.Kind, o.URL, o.Reason)
		}
	}
	return nil
}
