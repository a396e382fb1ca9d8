package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	gommon "github.com/labstack/gommon/log"

	"storymaker/pkg/config"
	"storymaker/pkg/engine/model"
	"storymaker/pkg/engine/rule"
	"storymaker/pkg/hybrid"
	"storymaker/pkg/server"
	"storymaker/pkg/story"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	configPath := os.Getenv("STORYMAKER_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("failed loading configuration", "path", configPath, "error", err)
	}

	catalog := story.NewCatalog()
	if err := catalog.Validate(); err != nil {
		log.Fatal("story catalog is inconsistent", "error", err)
	}

	ruleEngine := rule.New(catalog)
	modelEngine := model.New(catalog, model.Config{
		Path:          cfg.Model.Path,
		BaseURL:       cfg.Model.BaseURL,
		ContextSize:   cfg.Model.ContextSize,
		Temperature:   cfg.Model.Temperature,
		MaxTokens:     cfg.Model.MaxTokens,
		TopP:          cfg.Model.TopP,
		TopK:          cfg.Model.TopK,
		RepeatPenalty: cfg.Model.RepeatPenalty,
	})

	modelAvailable := false
	if err := modelEngine.Initialize(); err != nil {
		log.Warn("model engine unavailable, serving rule-based only", "error", err)
	} else {
		modelAvailable = true
	}

	router := hybrid.New(hybrid.Config{
		Preferred:       story.Engine(cfg.Engine.Preferred),
		FallbackEnabled: cfg.Engine.Fallback(),
		Timeout:         cfg.Engine.GenerationTimeout(),
	}, ruleEngine, modelEngine, modelAvailable)

	srv := server.NewServer(ctx, router, modelEngine, catalog)
	srv.Echo.Logger.SetLevel(gommon.INFO)
	srv.Recommended = model.RecommendedModels("models.json")

	addr := cfg.Server.Addr
	if envPort := os.Getenv("PORT"); envPort != "" {
		addr = ":" + envPort
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatal("shutdown failed", "error", err)
		}
		done()
		close(finishedShutDown)
	}()

	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
	}
	<-finishedShutDown
}
