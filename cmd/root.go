package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manasnilorout-blv/decode-contacts/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "decode-contacts",
	Short: "Contact deduplication batch pipeline",
	Long:  "Ingests mail-log, professional-network, and phone-book exports, merges records describing the same person, and writes a ranked contact list to CSV and a structured store.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
