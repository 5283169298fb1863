package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/slopjam/perftest/internal/browser"
	"github.com/slopjam/perftest/internal/config"
	"github.com/slopjam/perftest/internal/logger"
	"github.com/slopjam/perftest/internal/report"
	"github.com/slopjam/perftest/internal/storage"
	"github.com/slopjam/perftest/internal/vitals"
	"github.com/slopjam/perftest/pkg/model"
)

var (
	cacheFlag   string
	runsFlag    int
	waitFlag    int
	cdpURLFlag  string
	headerFlags []string
	outputFlag  string
)

var runCmd = &cobra.Command{
	Use:   "run <url>",
	Short: "Measure Core Web Vitals for a URL",
	Args:  cobra.ExactArgs(1),
	Example: `  # Three cold-cache runs against a local Chrome started with
  # --remote-debugging-port=9222
  perftest run https://example.com --cache cold --runs 3

  # Warm run with a custom header and explicit output file
  perftest run https://example.com --header "X-Canary: 1" --output result.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cdpURLFlag != "" {
			cfg.CDPUrl = cdpURLFlag
		}
		if cmd.Flags().Changed("wait") {
			cfg.WaitBetweenSec = waitFlag
		}
		headers, err := parseHeaders(headerFlags)
		if err != nil {
			return err
		}
		cfg.Headers = append(cfg.Headers, headers...)

		mode := model.CacheMode(cacheFlag)
		if !mode.Valid() {
			return fmt.Errorf("invalid cache mode %q (want cold or warm)", cacheFlag)
		}
		if runsFlag < 1 {
			return fmt.Errorf("runs must be at least 1")
		}

		log := logger.New(logger.Options{
			Level:   cfg.Log.Level,
			Writers: cfg.Log.Writer,
			File:    cfg.Log.File,
		})

		target := model.Target{
			URL:         args[0],
			Headers:     cfg.Headers,
			CDPEndpoint: cfg.CDPUrl,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		page, err := browser.Attach(ctx, cfg.CDPUrl, log)
		if err != nil {
			return fmt.Errorf("attach to browser: %w", err)
		}
		defer page.Close()

		collector := vitals.NewCollector(vitals.Options{
			StabilizationTime: time.Duration(cfg.StabilizationTimeSec) * time.Second,
			LCPWaitTime:       time.Duration(cfg.LCPWaitTimeSec) * time.Second,
			LoadTimeout:       time.Duration(cfg.LoadTimeoutSec) * time.Second,
			MaxSlowResources:  cfg.MaxSlowResources,
		}, log)
		orch := vitals.NewOrchestrator(collector, time.Duration(cfg.WaitBetweenSec)*time.Second, log)

		results := orch.Run(ctx, page, target, mode, runsFlag)
		agg := vitals.Aggregate(results, mode, cfg.Thresholds)

		for _, r := range results {
			report.PrintRun(os.Stdout, r)
		}
		report.PrintSummary(os.Stdout, agg)

		now := time.Now()
		doc, err := report.BuildDocument(target, results, agg, now)
		if err != nil {
			return fmt.Errorf("build results document: %w", err)
		}
		path := outputFlag
		if path == "" {
			path = report.DefaultPath(cfg.OutputDir, target.URL, mode, now)
		}
		if err := report.Write(path, doc); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		fmt.Fprintf(os.Stdout, "\nresults saved to %s\n", path)

		if cfg.Sqlite.Dsn != "" {
			store, err := storage.Open(cfg.Sqlite.Dsn, cfg.Sqlite.Prefix, log)
			if err != nil {
				return fmt.Errorf("open result store: %w", err)
			}
			defer store.Close()
			id, err := store.SaveReport(ctx, target, agg, results, doc)
			if err != nil {
				return fmt.Errorf("persist report: %w", err)
			}
			log.Info("report persisted", "reportID", id, "dsn", cfg.Sqlite.Dsn)
		}
		return nil
	},
}

// parseHeaders parses repeated "Name: Value" flags, preserving order.
func parseHeaders(raw []string) ([]model.Header, error) {
	headers := make([]model.Header, 0, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q (expected \"Name: Value\")", h)
		}
		headers = append(headers, model.Header{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return headers, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&cacheFlag, "cache", "warm", "cache mode: cold or warm")
	runCmd.Flags().IntVar(&runsFlag, "runs", 1, "number of measurement runs")
	runCmd.Flags().IntVar(&waitFlag, "wait", 5, "seconds to wait between runs")
	runCmd.Flags().StringVar(&cdpURLFlag, "cdp-url", "", "DevTools endpoint of the running browser (default http://localhost:9222)")
	runCmd.Flags().StringArrayVar(&headerFlags, "header", nil, `extra HTTP header ("Name: Value"), repeatable`)
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file path (auto-generated if not specified)")
}
