// Package app wires configuration, record sources, handlers and sinks into a
// ready-to-use assistant.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/autofin/internal/assistant"
	"github.com/alexanderramin/autofin/internal/config"
	"github.com/alexanderramin/autofin/internal/crmlog"
	"github.com/alexanderramin/autofin/internal/db"
	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/handler"
	"github.com/alexanderramin/autofin/internal/identity"
	"github.com/alexanderramin/autofin/internal/llm"
	"github.com/alexanderramin/autofin/internal/records"
	"github.com/alexanderramin/autofin/internal/repository"
)

// App holds the long-lived collaborators shared by every session.
type App struct {
	Config       config.Config
	Store        *records.Store
	Resolver     *identity.Resolver
	Payments     *handler.Payments
	Claims       *handler.Claims
	SOP          handler.KnowledgeBase
	Router       *assistant.Router
	Interactions repository.InteractionRepo
	// LLM is nil when text generation is disabled.
	LLM      llm.LLMClient
	Logger   crmlog.Logger
	Observer assistant.TurnObserver
	ErrorLog *slog.Logger

	database *sql.DB
	history  *crmlog.FileSink
}

// Build opens every data source named by cfg. Diagnostics go to stderr.
func Build(ctx context.Context, cfg config.Config, stderr io.Writer) (*App, error) {
	if stderr == nil {
		stderr = io.Discard
	}
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	a := &App{
		Config:   cfg,
		ErrorLog: slog.New(slog.NewTextHandler(stderr, handlerOpts)),
		Observer: assistant.NewLogTurnObserver(stderr, cfg.LogLevel),
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.database = database

	claimStore, err := a.claimStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	store, err := records.Open(cfg.Paths, claimStore)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	a.Store = store

	kb, err := loadKnowledgeBase(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.SOP = kb

	a.Resolver = identity.NewResolver(store)
	a.Payments = handler.NewPayments(store, cfg.Currency)
	a.Claims = handler.NewClaims(store.Claims(), time.Now, cfg.Currency)
	a.Router = assistant.NewRouter(assistant.Handlers{
		Resolver: a.Resolver,
		Payments: a.Payments,
		Claims:   a.Claims,
		SOP:      a.SOP,
	})

	if cfg.LLM.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			observer = llm.NewLogObserver(stderr)
		}
		client, err := llm.NewClient(cfg.LLM, observer)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("configuring LLM: %w", err)
		}
		a.LLM = client
	}

	interactions := repository.NewSQLiteInteractionRepo(database)
	a.Interactions = interactions
	sinks := crmlog.Multi{crmlog.NewDBSink(interactions)}
	if cfg.LogFile != "" {
		history, err := crmlog.NewFileSink(cfg.LogFile, crmlog.DefaultFileOptions())
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("opening chat history: %w", err)
		}
		a.history = history
		sinks = append(sinks, history)
	}
	a.Logger = sinks

	return a, nil
}

// claimStore returns the configured claim persistence. The SQLite store is
// seeded once from the claims CSV.
func (a *App) claimStore(ctx context.Context) (records.ClaimStore, error) {
	cfg := a.Config
	if cfg.ClaimsBackend != config.ClaimsSQLite {
		return records.NewCSVClaimStore(cfg.Paths.Claims), nil
	}

	table, err := records.LoadTable(cfg.Paths.Claims)
	if err != nil {
		return nil, fmt.Errorf("loading claims: %w", err)
	}
	res, err := repository.ImportClaims(ctx, db.NewSQLiteUnitOfWork(a.database), records.Claims(table))
	if err != nil {
		return nil, err
	}
	for _, sk := range res.Skipped {
		a.ErrorLog.Warn("skipped claim row", "row", sk.Index+1, "claim_id", sk.ClaimID, "reason", sk.Reason, "source", cfg.Paths.Claims)
	}
	if res.Imported > 0 {
		a.ErrorLog.Info("seeded claims table", "rows", res.Imported, "source", cfg.Paths.Claims)
	}
	return repository.NewSQLiteClaimRepo(a.database), nil
}

func loadKnowledgeBase(cfg config.Config) (handler.KnowledgeBase, error) {
	if cfg.SOPMode == domain.SOPModePatterns {
		return handler.NewPatternKB(records.LoadSOPPatterns(cfg.Paths.SOPPatterns)), nil
	}
	doc, err := records.LoadSOPDocument(cfg.Paths.SOPDocument)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	return handler.NewSOP(doc), nil
}

// NewAssistant starts a session in mode. Supervisor and LLM modes require an
// enabled text generator.
func (a *App) NewAssistant(mode domain.AgentMode) (*assistant.Assistant, error) {
	responder, err := assistant.ForMode(mode, a.Router, a.LLM)
	if err != nil {
		return nil, err
	}
	return assistant.New(mode, responder,
		assistant.WithLogger(a.Logger),
		assistant.WithObserver(a.Observer),
		assistant.WithErrorLog(a.ErrorLog),
	), nil
}

// Close releases the database and the history file.
func (a *App) Close() error {
	var errs []error
	if a.history != nil {
		errs = append(errs, a.history.Close())
	}
	if a.database != nil {
		errs = append(errs, a.database.Close())
	}
	return errors.Join(errs...)
}
