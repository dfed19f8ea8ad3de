package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/config"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/database"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/llm"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/logging"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/review"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/search"
)

// app holds what a command needs after loading configuration
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB
}

// loadApp loads the config file and builds the logger. withDB also opens
// the database, creating its directory on first use.
func loadApp(withDB bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if !withDB {
		return a, nil
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.db = db
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	_ = a.logger.Sync()
}

func (a *app) moderator() *moderation.Moderator {
	return moderation.New(a.cfg.Moderation)
}

func (a *app) reviewService() *review.Service {
	return review.NewService(a.cfg.Moderation, a.db, a.moderator(), a.logger.Named("review"))
}

// searchService wires the configured LLM providers into the parser chain
// and the translator. Providers without API keys are left out.
func (a *app) searchService(ctx context.Context) *search.Service {
	logger := a.logger.Named("search")
	providers := llm.Providers(ctx, a.cfg.LLM, logger)
	chain := search.NewChain(logger, llm.Strategies(providers, a.cfg.LLM)...)

	var translator *search.Translator
	if len(providers) > 0 {
		translator = search.NewTranslator(providers, a.cfg.LLM.Timeout(), logger)
	}
	return search.NewService(a.cfg.Search, chain, translator, a.db, logger)
}
