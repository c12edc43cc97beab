package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jdgilhuly/agent_evals/pkg/agents"
	"github.com/jdgilhuly/agent_evals/pkg/config"
	"github.com/jdgilhuly/agent_evals/pkg/dataset"
	"github.com/jdgilhuly/agent_evals/pkg/eval"
	"github.com/jdgilhuly/agent_evals/pkg/provider"
	"github.com/jdgilhuly/agent_evals/pkg/report"
	"github.com/jdgilhuly/agent_evals/pkg/results"
	"github.com/jdgilhuly/agent_evals/pkg/service"
	"github.com/jdgilhuly/agent_evals/pkg/web"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agenteval",
	Short: "Agent routing evaluation harness",
	Long: `Evaluates whether the banking agent router makes correct decisions:
routing a user message to the correct specialist (handoff evaluation) or
calling the correct tool (tool call evaluation).

Each run grades a fixed CSV dataset against live model output, reports
aggregate accuracy, and saves a timestamped result file plus a history
entry for longitudinal comparison.`,
}

// --- handoff / toolcall commands ---

var handoffCmd = &cobra.Command{
	Use:   "handoff",
	Short: "Run the handoff evaluation",
	Long: `Grade the routing dataset: for each message, ask the orchestrator
which specialist to hand off to and compare with the expected agent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEval(cmd, dataset.KindHandoff)
	},
}

var toolcallCmd = &cobra.Command{
	Use:   "toolcall",
	Short: "Run the tool call evaluation",
	Long: `Grade the tool call dataset: for each message, ask the operational
agent to handle it and compare the first tool it calls with the expected
tool.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEval(cmd, dataset.KindToolCall)
	},
}

func runEval(cmd *cobra.Command, kind dataset.Kind) error {
	runner, cfg, err := buildRunner(cmd)
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = cfg.Provider.Model
	}
	noColor, _ := cmd.Flags().GetBool("no-color")
	quiet, _ := cmd.Flags().GetBool("quiet")

	fmt.Printf("Running %s eval (model %s)...\n", kind, model)

	var progress eval.ProgressFunc
	if !quiet {
		progress = func(index, total int, r eval.Result) {
			report.PrintProgress(os.Stdout, index, total, r, !noColor)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := runner.Run(ctx, kind, model, progress)
	if rep != nil {
		fmt.Println()
		report.PrintReport(os.Stdout, rep, !noColor)
	}
	if err != nil {
		return err
	}
	return nil
}

// --- serve command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluation triggers over HTTP",
	Long: `Start the web server. Evaluations are triggered with:

  POST /api/run-handoff-eval
  POST /api/run-tool-eval

and inspected with GET /api/history and GET /api/examples.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, cfg, err := buildRunner(cmd)
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}

		server := web.NewServer(runner, cfg.Server)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return server.Shutdown(context.Background())
		}
	},
}

// --- history command ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded evaluation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadOrDefault(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		entries, err := results.NewHistory(cfg.ResultsDir).LoadSorted()
		if err != nil {
			return err
		}
		report.PrintHistory(os.Stdout, entries)
		return nil
	},
}

// --- validate command ---

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate config, datasets, and agent tool schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadOrDefault(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
		fmt.Printf("Config is valid (model %s).\n", cfg.Provider.Model)

		if err := agents.Build().Validate(); err != nil {
			return fmt.Errorf("agent catalog validation failed: %w", err)
		}
		fmt.Println("Agent tool schemas are valid.")

		for _, kind := range []dataset.Kind{dataset.KindHandoff, dataset.KindToolCall} {
			cases, err := dataset.LoadKind(cfg.DataDir, kind)
			if err != nil {
				return fmt.Errorf("dataset validation failed: %w", err)
			}
			fmt.Printf("Dataset %s is valid (%d cases).\n", kind, len(cases))
		}
		return nil
	},
}

// --- init command ---

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold config and example datasets",
	Long: `Create the default project layout:

  agenteval.yaml   - Configuration file
  data/            - Dataset CSV files
  results/         - Result file output directory`,
	RunE: runInit,
}

// buildRunner loads config, constructs the model client, and wires the
// evaluation pipeline.
func buildRunner(cmd *cobra.Command) (*service.Runner, *config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, nil, err
	}

	opts := []provider.OpenAIOption{
		provider.WithMaxRetries(cfg.Retry.MaxRetries),
		provider.WithTimeout(cfg.Provider.Timeout),
	}
	if cfg.Provider.BaseURL != "" {
		opts = append(opts, provider.WithBaseURL(cfg.Provider.BaseURL))
	}
	client := provider.NewOpenAIClient(apiKey, opts...)

	return service.NewRunner(cfg, client), cfg, nil
}

func init() {
	for _, cmd := range []*cobra.Command{handoffCmd, toolcallCmd} {
		cmd.Flags().StringP("config", "c", "agenteval.yaml", "Path to config file")
		cmd.Flags().StringP("model", "m", "", "Override the configured model")
		cmd.Flags().Bool("no-color", false, "Disable colored output")
		cmd.Flags().BoolP("quiet", "q", false, "Suppress per-case progress lines")
	}

	serveCmd.Flags().StringP("config", "c", "agenteval.yaml", "Path to config file")
	serveCmd.Flags().IntP("port", "p", 0, "Override the configured server port")

	historyCmd.Flags().StringP("config", "c", "agenteval.yaml", "Path to config file")
	validateCmd.Flags().StringP("config", "c", "agenteval.yaml", "Path to config file")

	rootCmd.AddCommand(handoffCmd)
	rootCmd.AddCommand(toolcallCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
}
