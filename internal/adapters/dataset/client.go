/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package dataset

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"

    "github.com/HamedShams/backlog-pulse/internal/config"
    "github.com/HamedShams/backlog-pulse/internal/domain"
    "github.com/rs/zerolog"
)

// Client pushes the captured row set to a downstream dataset endpoint
// (e.g. a Power BI push dataset). Construction with no endpoint configured
// yields a nil client, which callers treat as "push disabled".
type Client struct {
    endpoint string
    http     *http.Client
    log      zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    if cfg.DatasetEndpoint == "" { return nil }
    return &Client{ endpoint: cfg.DatasetEndpoint, http: &http.Client{ Timeout: 30 * time.Second }, log: log }
}

func (c *Client) PushRows(ctx context.Context, rows domain.Snapshot) error {
    if c == nil { return nil }
    b, err := json.Marshal(rows)
    if err != nil { return err }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
    if err != nil { return err }
    req.Header.Set("Content-Type", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        body, _ := io.ReadAll(resp.Body)
        return fmt.Errorf("dataset push status=%d body=%s", resp.StatusCode, string(body))
    }
    c.log.Info().Str("endpoint", c.endpoint).Int("rows", len(rows)).Msg("dataset push ok")
    return nil
}
