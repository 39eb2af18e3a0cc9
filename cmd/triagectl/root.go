package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/triagem/triage-console/internal/config"
	"github.com/triagem/triage-console/internal/gateway"
	"github.com/triagem/triage-console/internal/observability"
)

const defaultBaseURL = "http://localhost:8001"

// cliOptions are the persistent flags shared by every subcommand.
type cliOptions struct {
	baseURL string
	timeout time.Duration
	output  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "triagectl",
		Short:         "Triage support chamados against the analysis service",
		Long:          "triagectl submits chamados for automated triage, shows the\nstatistics dashboard and inspects the pattern catalog.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.baseURL, "base-url", envOr("TRIAGE_API_URL", defaultBaseURL), "Analysis service base URL")
	pf.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Per-request timeout")
	pf.StringVarP(&opts.output, "output", "o", "table", "Output format: table, markdown, json or yaml")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log gateway calls to stderr")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newTicketCmd(opts),
		newDashboardCmd(opts),
		newPatternsCmd(opts),
		newHealthCmd(opts),
		newChamadoCmd(opts),
		newHashPasswordCmd(),
	)
	return root
}

func (o *cliOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := observability.NewLogger(config.LoggerConfig{Level: "debug", Output: "stderr"})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (o *cliOptions) client() *gateway.Client {
	return gateway.NewClient(config.GatewayConfig{
		BaseURL:        o.baseURL,
		TimeoutSeconds: int(o.timeout / time.Second),
	}, o.logger(), nil)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
