/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"

    "github.com/HamedShams/backlog-pulse/internal/config"
    "github.com/HamedShams/backlog-pulse/internal/services"
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
)

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc *services.Service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc *services.Service) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(200, gin.H{"ok": true})
}

func (h *Handlers) LastRun(c *gin.Context) {
    lr := h.svc.LastRun()
    if lr == nil { c.JSON(404, gin.H{"error": "no runs yet"}); return }
    c.JSON(200, lr)
}

func (h *Handlers) RunNow(c *gin.Context) {
    go func() {
        started, err := h.svc.TryRunReport(context.Background())
        if err != nil { h.log.Error().Err(err).Msg("manual run failed") }
        if !started { h.log.Info().Msg("manual run skipped: already running") }
    }()
    c.JSON(202, gin.H{"status": "queued"})
}
