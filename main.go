package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doc_wizard/catalog"
	"doc_wizard/config"
	"doc_wizard/generator"
	"doc_wizard/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "doc_wizard",
		Short: "Step-by-step technical document generator",
		Long: `doc_wizard walks through category, template and details, asks a language
model for the document and can analyze the result into flashcards.`,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(templatesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		envFile    string
		debug      bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if debug {
				cfg.Debug = true
			}
			if err := cfg.ResolveSecrets(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			llm, err := buildLLM(cfg.LLM)
			if err != nil {
				return err
			}
			agent, err := generator.NewAgent(llm, logger.Named("generator"))
			if err != nil {
				return err
			}
			srv, err := server.New(agent, server.Options{
				Catalog:         catalog.Default(),
				DefaultLanguage: cfg.Wizard.DefaultLanguage,
				Logger:          logger.Named("server"),
			})
			if err != nil {
				return err
			}

			listen := cfg.Server.Addr()
			if addr != "" {
				listen = addr
			}
			logger.Info("llm backend",
				zap.String("provider", cfg.LLM.Provider),
				zap.String("model", cfg.LLM.Model))

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(listen) }()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Close(ctx)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config.yaml")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.host/port)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file with secrets")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	return cmd
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List document categories and templates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cat := catalog.Default()
			heading := color.New(color.FgCyan, color.Bold)
			for _, c := range cat.Categories() {
				fmt.Printf("%s  %s\n", heading.Sprint(c.Name), color.New(color.Faint).Sprint(c.ID))
				for _, t := range cat.Templates(c.ID) {
					fmt.Printf("  %-10s %s\n", color.New(color.FgGreen).Sprint(t.ID), t.Name)
					fmt.Printf("             formats: %v\n", t.SupportedFormats)
				}
				fmt.Println()
			}
		},
	}
}

// newLogger returns a development logger when debug is set, production otherwise.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func buildLLM(cfg config.LLMConfig) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		Timeout:     cfg.Timeout,
	}
	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderGemini:
		return generator.NewOpenAILLMFromConfig(settings)
	case config.ProviderDeepSeek:
		// DeepSeek speaks the OpenAI protocol but has no default endpoint in the SDK.
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLMFromConfig(settings)
	case config.ProviderOllama:
		return generator.NewOllamaLLMFromConfig(settings)
	case config.ProviderMock:
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}
