package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/imkonsowa/vibe-eats/catalog"
	"github.com/imkonsowa/vibe-eats/config"
	"github.com/imkonsowa/vibe-eats/recommender"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	cfg := config.LoadConfig()

	setupLogger(cfg.Log.Level)

	if err := run(cfg); err != nil {
		log.Fatalf("failed to run the agent: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close catalog", "error", err)
		}
	}()

	llm, err := newLLM(cfg)
	if err != nil {
		return err
	}

	return NewAgent(cfg, newService(cfg, store, llm)).Run(ctx)
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func newLLM(cfg *config.Config) (recommender.Generator, error) {
	switch cfg.LLM.Provider {
	case "openai":
		opts := []openai.Option{
			openai.WithToken(cfg.LLM.APIKey),
			openai.WithModel(cfg.LLM.Model),
		}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.LLM.BaseURL))
		}

		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}

		return llm, nil
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.Ollama.Address()),
			ollama.WithModel(cfg.LLM.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}

		return llm, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
}

func newService(cfg *config.Config, store recommender.Catalog, llm recommender.Generator) *recommender.Service {
	images := recommender.NewImageResolver(
		cfg.Images.StorageBaseURL,
		cfg.Images.RelativePrefix,
		cfg.Images.Placeholder,
	)

	requester := recommender.NewRequester(
		llm,
		recommender.WithTimeout(cfg.LLM.Timeout),
		recommender.WithMaxRetries(cfg.LLM.MaxRetries),
	)

	return recommender.NewService(
		store,
		recommender.NewPromptBuilder(images),
		requester,
		recommender.NewNormalizer(images),
	)
}
