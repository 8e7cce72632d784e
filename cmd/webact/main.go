package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/webact/webact-go/internal/agent"
	"github.com/webact/webact-go/internal/browser"
	"github.com/webact/webact-go/internal/config"
	"github.com/webact/webact-go/internal/llm"
	"github.com/webact/webact-go/internal/logging"
)

var (
	cfgPath  string
	task     string
	website  string
	maxSteps int
	headless bool
	crawler  bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "webact",
		Short: "LLM-driven web agent that completes tasks on live pages",
		Long: `webact alternates between reading the current page and executing one
semantic action chosen by a language model, until the model terminates the
task or a step budget runs out.

Example:
  webact --website "https://www.google.com/" --task "Find the price of the latest iPhone"`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a TOML config file")
	rootCmd.Flags().StringVarP(&task, "task", "t", "", "Task for the agent (default: from config)")
	rootCmd.Flags().StringVarP(&website, "website", "w", "", "Starting URL (default: from config)")
	rootCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Step budget override")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run the browser headless")
	rootCmd.Flags().BoolVar(&crawler, "crawler", false, "Random-walk crawler mode instead of a task")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load(cfgPath, logging.Console())
	applyFlags(&cfg, cmd)

	log, closer, err := logging.New(cfg.Basic.SaveFileDir, logging.DefaultLogFile, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	mgr, err := browser.NewManager(cfg.Browser, log)
	if err != nil {
		return err
	}
	defer mgr.Close()

	if err := mgr.Tab().Goto(cfg.Basic.DefaultWebsite); err != nil {
		return fmt.Errorf("open %s: %w", cfg.Basic.DefaultWebsite, err)
	}

	client, err := llm.NewOpenAIClient(cfg.OpenAI.Model, cfg.OpenAI.Temperature)
	if err != nil {
		return err
	}

	session := agent.NewSession(cfg, mgr, client, log)
	ctx := context.Background()

	if cfg.Basic.CrawlerMode {
		log.Info().Int("max_steps", cfg.Basic.CrawlerMaxSteps).Msg("starting crawler session")
		return session.Crawl(ctx)
	}

	log.Info().Str("task", cfg.Basic.DefaultTask).Str("website", cfg.Basic.DefaultWebsite).Msg("starting task session")
	return session.Run(ctx, cfg.Basic.DefaultTask)
}

func applyFlags(cfg *config.Config, cmd *cobra.Command) {
	if task != "" {
		cfg.Basic.DefaultTask = task
	}
	if website != "" {
		cfg.Basic.DefaultWebsite = website
	}
	if maxSteps > 0 {
		cfg.Agent.MaxAutoOp = maxSteps
		cfg.Basic.CrawlerMaxSteps = maxSteps
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if cmd.Flags().Changed("crawler") {
		cfg.Basic.CrawlerMode = crawler
	}
}
