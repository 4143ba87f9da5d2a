package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/config"
	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/repository"
	"github.com/mamadbah2/smallerp/internal/service/analysis"
	"github.com/mamadbah2/smallerp/pkg/logger"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	backend *repository.Backend
	svc     *analysis.Service
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewCLI(os.Getenv("ERPREPORT_LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	backend, err := repository.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	svc, err := analysis.NewService(backend.Store, cfg.Analysis, nil, log.Named("svc.analysis"))
	if err != nil {
		_ = backend.Close(ctx)
		return nil, err
	}
	return &app{cfg: cfg, logger: log, backend: backend, svc: svc}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.backend.Close(ctx); err != nil {
		a.logger.Warn("failed to close entity store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// periodFlags are shared by subcommands working on a date range.
type periodFlags struct {
	start string
	end   string
	month string
}

func (p *periodFlags) register(f *flag.FlagSet) {
	f.StringVar(&p.start, "start", "", "First day of the period (YYYY-MM-DD or RFC 3339).")
	f.StringVar(&p.end, "end", "", "Last day of the period, inclusive.")
	f.StringVar(&p.month, "month", "", "Calendar month (YYYY-MM). Overrides -start and -end; defaults to the current month.")
}

func (p *periodFlags) period(loc *time.Location) (models.Period, error) {
	switch {
	case p.month != "":
		m, err := models.ParseMonth(p.month)
		if err != nil {
			return models.Period{}, err
		}
		return models.MonthPeriod(m), nil
	case p.start == "" && p.end == "":
		return models.MonthPeriod(models.MonthOf(time.Now().In(loc))), nil
	case p.start == "" || p.end == "":
		return models.Period{}, errors.New("-start and -end must be given together")
	}
	return models.ParsePeriod(p.start, p.end)
}

// stdout receives report output.
var stdout io.Writer = os.Stdout

// printMarkdown renders md for the terminal unless plain output is requested.
func printMarkdown(md string, plain bool) {
	if plain {
		fmt.Fprint(stdout, md)
		return
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
