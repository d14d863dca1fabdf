/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "fmt"
    "path/filepath"
    "sync"
    "time"

    "github.com/HamedShams/backlog-pulse/internal/adapters/jira"
    "github.com/HamedShams/backlog-pulse/internal/config"
    "github.com/HamedShams/backlog-pulse/internal/domain"
    "github.com/HamedShams/backlog-pulse/internal/export"
    "github.com/HamedShams/backlog-pulse/internal/report"
    "github.com/HamedShams/backlog-pulse/internal/snapshot"
    "github.com/rs/zerolog"
)

type Searcher interface {
    SearchAll(ctx context.Context, jql string, pageSize int) ([]jira.Issue, error)
    Endpoint() string
}

type Pusher interface {
    PushRows(ctx context.Context, rows domain.Snapshot) error
}

type Service struct {
    cfg   config.Config
    log   zerolog.Logger
    jira  Searcher
    store *snapshot.Store
    push  Pusher

    gate sync.Mutex // serializes in-process runs

    mu   sync.Mutex
    last *domain.RunRecord
}

func New(cfg config.Config, log zerolog.Logger, j Searcher, store *snapshot.Store, push Pusher) *Service {
    return &Service{cfg: cfg, log: log, jira: j, store: store, push: push}
}

// RunReport executes one full report run: fetch all pages, project rows,
// load the baseline, classify, export the workbook, persist the snapshot.
// Any fatal error aborts before the snapshot or workbook is written; a run
// is all-or-nothing.
func (s *Service) RunReport(ctx context.Context) (err error) {
    started := time.Now()
    capture := started
    rec := domain.RunRecord{StartedAt: started}
    defer func() {
        rec.FinishedAt = time.Now()
        rec.OK = err == nil
        if err != nil { rec.Error = err.Error() }
        s.mu.Lock()
        s.last = &rec
        s.mu.Unlock()
    }()

    s.log.Info().Str("jql", s.cfg.JiraJQL).Int("page_size", s.cfg.PageSize).Msg("report run: start")
    issues, err := s.jira.SearchAll(ctx, s.cfg.JiraJQL, s.cfg.PageSize)
    if err != nil { return fmt.Errorf("fetch: %w", err) }
    rec.Issues = len(issues)

    proj := report.Projector{SprintField: s.cfg.SprintField, PointsField: s.cfg.PointsField}
    rows := make(domain.Snapshot, 0, len(issues))
    for _, is := range issues {
        row, rerr := proj.Row(is, capture)
        if rerr != nil { return rerr }
        rows = append(rows, row)
    }

    baselineDate := capture.AddDate(0, 0, -s.cfg.LookbackDays)
    baseline, ok, err := s.store.TryLoad(baselineDate)
    if err != nil { return err }
    if ok {
        rec.BaselineDate = baselineDate.Format("2006-01-02")
    } else {
        s.log.Info().Str("baseline", baselineDate.Format("2006-01-02")).Msg("no baseline snapshot for lookback date")
        baseline = nil
    }

    diff := report.Classify(rows, baseline)
    rec.Added = diff.Added.Total()
    rec.Changed = diff.Changed.Total()

    reportPath := filepath.Join(s.cfg.OutputDir, "report_"+capture.Format("2006-01-02")+".xlsx")
    if err = export.Workbook(reportPath, rows, diff, s.jira.Endpoint()); err != nil { return err }
    rec.ReportFile = reportPath

    if err = s.store.Save(capture, rows); err != nil { return err }
    rec.SnapshotFile = s.store.Path(capture)

    // downstream push happens after persistence and is non-fatal
    if s.push != nil {
        if perr := s.push.PushRows(ctx, rows); perr != nil {
            s.log.Error().Err(perr).Msg("dataset push failed")
        }
    }

    s.log.Info().
        Int("issues", rec.Issues).
        Int("added", rec.Added).
        Int("changed", rec.Changed).
        Str("report", rec.ReportFile).
        Dur("took", time.Since(started)).
        Msg("report run: done")
    return nil
}

// TryRunReport runs a report unless another run is already in flight in
// this process; it reports whether the run was started. Concurrent runs
// across processes are not guarded (last write wins on the snapshot file).
func (s *Service) TryRunReport(ctx context.Context) (bool, error) {
    if !s.gate.TryLock() { return false, nil }
    defer s.gate.Unlock()
    return true, s.RunReport(ctx)
}

// LastRun returns the bookkeeping of the most recent run, or nil before the
// first one.
func (s *Service) LastRun() *domain.RunRecord {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.last
}
