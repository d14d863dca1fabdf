package jobs

import (
    "context"
    "time"

    "github.com/HamedShams/backlog-pulse/internal/config"
    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"
)

type service interface {
    TryRunReport(ctx context.Context) (bool, error)
}

type Cron struct {
    cfg config.Config
    log zerolog.Logger
    svc service
    c   *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, svc service) *Cron {
    loc, _ := time.LoadLocation(cfg.TZ)
    c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, svc: svc, c: c}
    _, _ = c.AddFunc(cfg.ReportCron, cr.run)
    return cr
}

func (cr *Cron) Start(){ cr.c.Start() }
func (cr *Cron) Stop(){ cr.c.Stop() }

func (cr *Cron) run(){
    ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute); defer cancel()
    cr.log.Info().Msg("cron: report run")
    started, err := cr.svc.TryRunReport(ctx)
    if err != nil { cr.log.Error().Err(err).Msg("cron: report failed"); return }
    if !started { cr.log.Info().Msg("cron: previous run still in progress") }
}
