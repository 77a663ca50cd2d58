package main

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/volunteer-match/internal/assess"
	"github.com/sells-group/volunteer-match/internal/catalog"
	"github.com/sells-group/volunteer-match/internal/config"
	"github.com/sells-group/volunteer-match/internal/dataset"
	"github.com/sells-group/volunteer-match/internal/fetcher"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/session"
	"github.com/sells-group/volunteer-match/internal/store"
	"github.com/sells-group/volunteer-match/pkg/notion"
)

// appEnv holds everything the serve, assess and mcp commands share.
type appEnv struct {
	Store    store.Store
	Sessions *session.Manager
	Notion   notion.Client // nil unless a token is configured
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// loaderDeps are the sources an engine is rebuilt from.
type loaderDeps struct {
	cfg      *config.Config
	resolver *fetcher.Resolver
	notion   notion.Client
}

// initApp validates the config for mode, opens the audit store and loads
// the first engine. Callers should defer env.Close().
func initApp(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	var nc notion.Client
	if cfg.Notion.Token != "" {
		nc = notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(cfg.Notion.RateLimit))
	}

	st, err := store.Open(ctx, strings.ToLower(cfg.Store.Driver), cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	opts := session.Options{Student: cfg.Assessment.StudentDefault, Store: st}
	if nc != nil && cfg.Notion.ResultDB != "" {
		opts.Publisher = notion.NewPublisher(nc, cfg.Notion.ResultDB)
		zap.L().Info("publishing results to notion", zap.String("database", cfg.Notion.ResultDB))
	}

	deps := loaderDeps{cfg: cfg, resolver: newResolver(cfg), notion: nc}
	m, err := session.NewManager(ctx, deps.load, opts)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &appEnv{Store: st, Sessions: m, Notion: nc}, nil
}

func newResolver(c *config.Config) *fetcher.Resolver {
	return fetcher.NewResolver(time.Duration(c.Fetch.TimeoutSecs) * time.Second)
}

// load reads the role sheet and the question catalog concurrently and
// builds an engine from them.
func (d loaderDeps) load(ctx context.Context) (*assess.Engine, error) {
	var (
		roles     []model.Role
		questions []model.Question
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = loadRoles(gctx, d.cfg, d.resolver)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = loadQuestions(gctx, d.cfg, d.resolver, d.notion)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assess.NewEngine(roles, questions, assessmentOptions(d.cfg))
}

func assessmentOptions(c *config.Config) assess.Options {
	return assess.Options{
		Scope:       assess.Scope(strings.ToLower(c.Assessment.Scope)),
		ResultCount: c.Assessment.ResultCount,
	}
}

func datasetOptions(c *config.Config) dataset.Options {
	return dataset.Options{
		Path:        c.Dataset.Path,
		Format:      dataset.Format(strings.ToLower(c.Dataset.Format)),
		Sheet:       c.Dataset.Sheet,
		Table:       c.Dataset.Table,
		DatabaseURL: c.Dataset.DatabaseURL,
	}
}

// readRows reads the configured sheet, downloading it first when it is
// remote.
func readRows(ctx context.Context, c *config.Config, r *fetcher.Resolver) ([]dataset.Row, error) {
	opts := datasetOptions(c)
	if opts.Format == dataset.FormatPostgres {
		return dataset.ReadRows(ctx, opts)
	}

	local, cleanup, err := r.Resolve(ctx, opts.Path)
	if err != nil {
		return nil, eris.Wrap(err, "resolve dataset")
	}
	defer cleanup()

	opts.Path = local
	return dataset.ReadRows(ctx, opts)
}

func loadRoles(ctx context.Context, c *config.Config, r *fetcher.Resolver) ([]model.Role, error) {
	rows, err := readRows(ctx, c, r)
	if err != nil {
		return nil, err
	}
	roles, err := dataset.Roles(rows)
	if err != nil {
		return nil, err
	}
	zap.L().Info("loaded roles", zap.String("source", c.Dataset.Path), zap.Int("roles", len(roles)))
	return roles, nil
}

func loadQuestions(ctx context.Context, c *config.Config, r *fetcher.Resolver, nc notion.Client) ([]model.Question, error) {
	switch strings.ToLower(c.Catalog.Source) {
	case config.CatalogFile:
		local, cleanup, err := r.Resolve(ctx, c.Catalog.Path)
		if err != nil {
			return nil, eris.Wrap(err, "resolve catalog")
		}
		defer cleanup()
		return catalog.LoadFile(local)
	case config.CatalogNotion:
		if nc == nil {
			return nil, eris.New("notion catalog needs notion.token")
		}
		return catalog.LoadNotion(ctx, nc, c.Notion.QuestionDB)
	}
	return catalog.Builtin(), nil
}
