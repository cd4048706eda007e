package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/manasnilorout-blv/decode-contacts/internal/model"
	"github.com/manasnilorout-blv/decode-contacts/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the stored contact list and run history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		stats, err := st.Stats(ctx)
		if err != nil {
			return eris.Wrap(err, "report: stats")
		}
		formatStats(os.Stdout, stats)

		sample, err := st.SampleContacts(ctx, cfg.Report.SampleSize)
		if err != nil {
			return eris.Wrap(err, "report: sample")
		}
		if len(sample) > 0 {
			formatSample(os.Stdout, sample)
		}

		runs, err := st.ListRuns(ctx, cfg.Report.RunLimit)
		if err != nil {
			return eris.Wrap(err, "report: runs")
		}
		if len(runs) > 0 {
			formatRuns(os.Stdout, runs)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func formatStats(w io.Writer, stats *store.ContactStats) {
	fmt.Fprintln(w, "Contacts")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  total\t%d\n", stats.Total)
	fmt.Fprintf(tw, "  with email\t%d\n", stats.WithEmail)
	fmt.Fprintf(tw, "  with phone\t%d\n", stats.WithPhone)
	fmt.Fprintf(tw, "  with both\t%d\n", stats.WithBoth)
	tw.Flush()
}

func formatSample(w io.Writer, contacts []model.Candidate) {
	fmt.Fprintln(w, "\nSample")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tEMAIL\tPHONE")
	for _, c := range contacts {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.ComparisonName(), c.Email, c.Phone)
	}
	tw.Flush()
}

func formatRuns(w io.Writer, runs []model.Run) {
	fmt.Fprintln(w, "\nRecent runs")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tSTATUS\tRAW\tFINAL\tSTARTED")
	for _, r := range runs {
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Status, r.RawCount, r.Final, r.StartedAt.Format(time.RFC3339))
	}
	tw.Flush()
}
