package cli

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "perftest",
	Short: "Core Web Vitals measurement against an already-running browser",
	Long: `perftest attaches to a running Chrome/Chromium instance over its remote
debugging endpoint and measures Core Web Vitals (FCP, LCP, CLS, TTFB) plus
navigation and resource timing. It never launches a browser of its own, so
measurements run in a real, non-automated browsing context.

Cache state is controlled explicitly: warm runs reuse the existing cache,
cold runs navigate, clear cache and cookies, then reload so the cold
network path is exercised.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./perftest.yaml)")
}
