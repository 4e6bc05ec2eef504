package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dtek-schedule/internal/browser"
	"dtek-schedule/internal/config"
	"dtek-schedule/internal/logging"
	"dtek-schedule/internal/scrape"
)

var (
	queueFlag   string
	urlFlag     string
	debugFile   string
	timeoutFlag time.Duration
	serverFlag  string
)

var rootCmd = &cobra.Command{
	Use:           "schedule",
	Short:         "Print today's and tomorrow's DTEK outage schedule for one queue",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&queueFlag, "queue", "q", "", "queue ID (default DEFAULT_QUEUE or GPV3.1)")
	rootCmd.Flags().StringVar(&urlFlag, "url", "", "shutdowns page URL (default SOURCE_URL)")
	rootCmd.Flags().StringVar(&debugFile, "debug-file", "debug.html", "where to save the page source when extraction fails")
	rootCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "overall fetch timeout (default FETCH_TIMEOUT)")
	rootCmd.Flags().StringVar(&serverFlag, "server", "", "read from a running API at this base URL instead of launching a browser")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logging.Setup(cfg.LogLevel, true); err != nil {
		return err
	}
	// Progress goes to stderr, the schedule to stdout.
	logging.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	queue := cfg.DefaultQueue
	if queueFlag != "" {
		queue = queueFlag
	}
	url := cfg.SourceURL
	if urlFlag != "" {
		url = urlFlag
	}
	timeout := cfg.FetchTimeout
	if timeoutFlag > 0 {
		timeout = timeoutFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := cmd.OutOrStdout()
	banner(out, queue)

	if serverFlag != "" {
		return runRemote(ctx, out, serverFlag, cfg.APIPassword, queue)
	}

	provider := browser.NewProvider(browser.Options{
		ExecPath:  cfg.ChromePath,
		RemoteURL: cfg.ChromeWSURL,
		Headless:  cfg.ChromeHeadless,
		UserAgent: cfg.UserAgent,
	})
	pipeline := scrape.NewPipeline(url, scrape.BrowserSessions(provider),
		scrape.RetryPolicy{Interval: cfg.PollInterval, Timeout: cfg.PollTimeout},
		scrape.WithDebugDump(debugFile),
	)

	snap, err := pipeline.Fetch(ctx)
	if err != nil {
		return err
	}
	return render(out, snap.Fact, queue, time.Now())
}
