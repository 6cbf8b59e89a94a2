package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"mad-puzzle/internal/catalog"
	"mad-puzzle/internal/config"
	"mad-puzzle/internal/layout"
	"mad-puzzle/internal/puzzles"
	"mad-puzzle/internal/rules"
	"mad-puzzle/internal/session"
)

// NewSession builds the session described by cfg: the preset's rules (or the
// catalog file when one is named), the preset's starting layout, and then the
// stored layout named by cfg.Layout when a store is given.
func NewSession(ctx context.Context, cfg *config.Config, store layout.Store, logger *zap.Logger) (*session.Session, puzzles.Preset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory, ok := puzzles.Presets()[cfg.Preset]
	if !ok {
		return nil, puzzles.Preset{}, fmt.Errorf("unknown preset %q (have %s)", cfg.Preset, strings.Join(puzzles.Names(), ", "))
	}
	preset := factory(map[string]string{
		"w":    strconv.Itoa(cfg.Width),
		"h":    strconv.Itoa(cfg.Height),
		"seed": strconv.FormatInt(cfg.Seed, 10),
	})

	cat := preset.Catalog
	if cfg.Catalog != "" {
		loaded, err := loadCatalog(cfg.Catalog, logger)
		if err != nil {
			return nil, preset, err
		}
		cat = loaded
	}

	sc, err := cfg.Session()
	if err != nil {
		return nil, preset, err
	}
	s, err := session.New(sc, rules.NewResolver(cat, logger), logger)
	if err != nil {
		return nil, preset, err
	}
	s.ApplyLayout(preset.Layout)

	if cfg.Layout != "" {
		if store == nil {
			return nil, preset, fmt.Errorf("layout %q requested but no store is configured", cfg.Layout)
		}
		l, err := store.Load(ctx, cfg.Layout)
		if err != nil {
			return nil, preset, err
		}
		s.ApplyLayout(l)
	}
	logger.Info("session ready",
		zap.String("preset", preset.Name),
		zap.Int("width", sc.Width), zap.Int("height", sc.Height),
		zap.Stringer("adjacency", sc.Adjacency),
		zap.Stringer("cascade", sc.Cascade),
		zap.Int("rules", s.Resolver().RuleCount()))
	return s, preset, nil
}

func loadCatalog(path string, logger *zap.Logger) (rules.Catalog, error) {
	doc, err := catalog.Load(path)
	if err != nil {
		return rules.Catalog{}, err
	}
	cat, err := doc.Catalog()
	for _, e := range multierr.Errors(err) {
		logger.Error("catalog: rule skipped", zap.String("path", path), zap.Error(e))
	}
	return cat, nil
}
