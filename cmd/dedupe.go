package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/manasnilorout-blv/decode-contacts/internal/merge"
	"github.com/manasnilorout-blv/decode-contacts/internal/pipeline"
)

var (
	dedupeMail       string
	dedupeNetwork    string
	dedupePhoneBook  string
	dedupeOut        string
	dedupeThreshold  float64
	dedupeDictionary string
	dedupeDriver     string
	dedupeDSN        string
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Run the full dedupe batch",
	Long:  "Parses the configured source exports, merges duplicate contacts by exact key and name similarity, ranks the survivors, and writes the CSV plus the structured store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if dedupeMail != "" {
			cfg.Inputs.Mail = dedupeMail
		}
		if dedupeNetwork != "" {
			cfg.Inputs.Network = dedupeNetwork
		}
		if dedupePhoneBook != "" {
			cfg.Inputs.PhoneBook = dedupePhoneBook
		}
		if dedupeOut != "" {
			cfg.Output.Path = dedupeOut
		}
		if cmd.Flags().Changed("threshold") {
			cfg.Merge.Threshold = dedupeThreshold
		}
		if dedupeDictionary != "" {
			cfg.Merge.Dictionary = dedupeDictionary
		}
		if dedupeDriver != "" {
			cfg.Store.Driver = dedupeDriver
		}
		if dedupeDSN != "" {
			cfg.Store.DatabaseURL = dedupeDSN
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		var matcher merge.Matcher
		if cfg.Merge.Dictionary != "" {
			m, err := merge.LoadDictionaryMatcher(cfg.Merge.Dictionary)
			if err != nil {
				return eris.Wrap(err, "dedupe: load dictionary")
			}
			matcher = m
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		p := pipeline.New(cfg, st, matcher, pipeline.DefaultInputs(cfg))
		res, err := p.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Run %s finished in %s\n", res.RunID, res.Elapsed.Round(time.Millisecond))
		fmt.Fprintf(os.Stdout, "  mentions ingested:   %d\n", res.RawCount)
		fmt.Fprintf(os.Stdout, "  candidates grouped:  %d\n", res.Candidates)
		fmt.Fprintf(os.Stdout, "  fuzzy-merge absorbed: %d\n", res.Absorbed)
		fmt.Fprintf(os.Stdout, "  final contacts:      %d\n", res.Final)
		fmt.Fprintf(os.Stdout, "  written to %s, %d stored\n", res.OutputPath, res.Stored)
		return nil
	},
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeMail, "mail", "", "path to the mail-log export CSV")
	dedupeCmd.Flags().StringVar(&dedupeNetwork, "network", "", "path to the professional-network connections CSV")
	dedupeCmd.Flags().StringVar(&dedupePhoneBook, "phonebook", "", "path to the phone-book export (CSV or XLSX)")
	dedupeCmd.Flags().StringVar(&dedupeOut, "out", "", "output CSV path")
	dedupeCmd.Flags().Float64Var(&dedupeThreshold, "threshold", 0, "name-similarity merge threshold (0, 1]")
	dedupeCmd.Flags().StringVar(&dedupeDictionary, "dictionary", "", "YAML alias dictionary for nickname-aware matching")
	dedupeCmd.Flags().StringVar(&dedupeDriver, "store-driver", "", "structured store driver (sqlite or postgres)")
	dedupeCmd.Flags().StringVar(&dedupeDSN, "store-dsn", "", "structured store connection string")

	rootCmd.AddCommand(dedupeCmd)
}
