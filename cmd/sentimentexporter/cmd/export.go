package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"SentimentExporter/internal/domain"
	"SentimentExporter/internal/export"
)

var (
	fromDate   string
	toDate     string
	lastDays   int
	allDates   bool
	format     string
	outDir     string
	previewLen int
)

func init() {
	exportCmd.Flags().StringVar(&fromDate, "from", "", "first date to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&toDate, "to", "", "last date to include (YYYY-MM-DD)")
	exportCmd.Flags().IntVar(&lastDays, "days", 0, "include only the last N days")
	exportCmd.Flags().BoolVar(&allDates, "all", false, "include every date the source has")
	exportCmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the file into")
	exportCmd.Flags().IntVar(&previewLen, "preview", 5, "rows to print before writing (0 disables)")
	exportCmd.MarkFlagsMutuallyExclusive("from", "days", "all")
	exportCmd.MarkFlagsMutuallyExclusive("to", "days", "all")
	exportCmd.MarkFlagsRequiredTogether("from", "to")

	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetches the selected source and writes the filtered history to a file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng, err := rangeFromFlags()
		if err != nil {
			return err
		}

		application, err := newApplication()
		if err != nil {
			return err
		}

		artifact, err := application.Export(cmd.Context(), sourceName, rng, format)
		if err != nil {
			return describe(err)
		}

		out := cmd.OutOrStdout()
		if artifact.Result.Empty() {
			fmt.Fprintf(out, "no data in range %s for %s\n", artifact.Result.Range, artifact.Result.Source)
			return nil
		}
		if previewLen > 0 {
			export.Preview(out, artifact.Result.Table, previewLen)
		}

		path := filepath.Join(outDir, artifact.Filename)
		if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(out, "wrote %d rows to %s\n", len(artifact.Result.Table), path)
		return nil
	},
}

func rangeFromFlags() (domain.DateRange, error) {
	switch {
	case fromDate != "":
		start, err := time.Parse(domain.DateLayout, fromDate)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid --from: %w", err)
		}
		end, err := time.Parse(domain.DateLayout, toDate)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid --to: %w", err)
		}
		return domain.Between(start, end), nil
	case lastDays != 0:
		return domain.LastDays(lastDays), nil
	default:
		return domain.AllDates(), nil
	}
}

// describe adds the retry hint to pipeline failures.
func describe(err error) error {
	var stageErr *domain.StageError
	if !errors.As(err, &stageErr) {
		return err
	}
	if domain.Retryable(err) {
		return fmt.Errorf("%w (retryable, try again later)", err)
	}
	return err
}
