package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"bookman/internal/config"
	"bookman/internal/model"
	"bookman/internal/service"
	"bookman/internal/state"
	"bookman/internal/store"
	"bookman/internal/workbook"
)

// App wires the engine for one CLI invocation: configuration record →
// domain model → services → data context.
type App struct {
	Config config.Config
	Log    *log.Logger

	Store  store.Store
	Record store.Record
	Model  *model.BDM

	Content workbook.ContentStore
	State   *state.Context

	Discovery   *service.Discovery
	Reconciler  *service.Reconciler
	Initializer *service.Initializer
}

// newApp loads configuration, opens the record store and builds the
// domain model and data context. A missing record file starts the app
// on an empty record so `init`-style commands can seed it.
func newApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level, ReportTimestamp: false})

	st, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	rec, err := st.Get(ctx)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	m, err := model.New(rec)
	if err != nil {
		return nil, err
	}

	content := workbook.NewFileStore()
	dc := state.NewContext(m, content, logger)
	if err := dc.ApplyDefaults(rec.Defaults); err != nil {
		return nil, err
	}

	disc := &service.Discovery{Log: logger}
	recon := &service.Reconciler{Log: logger}
	return &App{
		Config:      cfg,
		Log:         logger,
		Store:       st,
		Record:      rec,
		Model:       m,
		Content:     content,
		State:       dc,
		Discovery:   disc,
		Reconciler:  recon,
		Initializer: &service.Initializer{Model: m, Discovery: disc, Reconciler: recon, Log: logger},
	}, nil
}

// initialize builds the catalog and marks the data context ready.
func (a *App) initialize(ctx context.Context, opts service.InitializeOptions) (*service.Report, error) {
	rep, err := a.Initializer.Initialize(ctx, opts)
	if err != nil {
		return rep, err
	}
	a.State.MarkReady()
	a.State.Refresh()
	return rep, nil
}

// saveDefaults round-trips the current selection through the
// configuration record.
func (a *App) saveDefaults(ctx context.Context) error {
	a.Record.Defaults = a.State.Defaults()
	return a.Store.Put(ctx, a.Record)
}
