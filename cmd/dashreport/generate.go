package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rcourtman/dashreport/internal/config"
	"github.com/rcourtman/dashreport/internal/logging"
	"github.com/rcourtman/dashreport/internal/pdfcanvas"
	"github.com/rcourtman/dashreport/internal/report"
	"github.com/rcourtman/dashreport/pkg/grafana"
)

var generateFlags struct {
	dashboard string
	from      string
	to        string
	variables []string
	output    string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a PDF report for one dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateFlags.dashboard, "dashboard", "d", "", "dashboard uid (required)")
	generateCmd.Flags().StringVar(&generateFlags.from, "from", "", "time range start (epoch millis or relative, e.g. now-6h)")
	generateCmd.Flags().StringVar(&generateFlags.to, "to", "", "time range end")
	generateCmd.Flags().StringArrayVar(&generateFlags.variables, "var", nil, "template variable override name=value (repeatable)")
	generateCmd.Flags().StringVarP(&generateFlags.output, "output", "o", "", "output directory (default from config)")
}

func runGenerate() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel, Component: "generate"})

	if generateFlags.dashboard == "" {
		return report.ErrMissingDashboard
	}
	if generateFlags.output != "" {
		cfg.OutputDir = generateFlags.output
	}

	client, err := grafana.NewClient(grafana.ClientConfig{
		BaseURL:  cfg.GrafanaURL,
		APIToken: cfg.APIToken,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return err
	}

	// SIGINT/SIGTERM cancel the run cooperatively; a cancelled run is a
	// clean exit with no file written, not a failure.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dash, err := client.GetDashboard(ctx, generateFlags.dashboard)
	if err != nil {
		return err
	}

	manual, err := parseVariableFlags(generateFlags.variables)
	if err != nil {
		return err
	}

	gen := &report.Generator{
		Backend:     client,
		Settings:    cfg.Layout,
		NewCanvas:   pdfcanvas.New,
		OutputDir:   cfg.OutputDir,
		Concurrency: cfg.Concurrency,
		Progress: func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		},
	}

	outcome, err := gen.Generate(ctx, dash.Input(manual, generateFlags.from, generateFlags.to))
	if err != nil {
		return err
	}
	if outcome.Cancelled {
		log.Info().Msg("Report generation cancelled")
		return nil
	}

	fmt.Println(outcome.FileName)
	return nil
}

// parseVariableFlags turns repeated name=value flags into the manual
// override map. Repeating a name selects multiple values for it.
func parseVariableFlags(flags []string) (report.VariableValueMap, error) {
	manual := make(report.VariableValueMap)
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", f)
		}
		manual[name] = append(manual[name], report.VariableValue{Value: value})
	}
	return manual, nil
}
