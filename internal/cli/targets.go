package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/slopjam/perftest/internal/browser"
	"github.com/slopjam/perftest/internal/config"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the targets exposed by the remote debugging endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cdpURLFlag != "" {
			cfg.CDPUrl = cdpURLFlag
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		targets, err := browser.ListTargets(ctx, cfg.CDPUrl)
		if err != nil {
			return fmt.Errorf("list targets at %s: %w", cfg.CDPUrl, err)
		}
		for _, t := range targets {
			fmt.Fprintf(os.Stdout, "%-10s %-40s %s\n", t.Type, t.Title, t.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
	targetsCmd.Flags().StringVar(&cdpURLFlag, "cdp-url", "", "DevTools endpoint of the running browser")
}
