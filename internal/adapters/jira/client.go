/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "bytes"
    "context"
    "encoding/base64"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/HamedShams/backlog-pulse/internal/config"
    "github.com/rs/zerolog"
)

// SearchPage is one page envelope of the Jira search API.
type SearchPage struct {
    StartAt    int     `json:"startAt"`
    MaxResults int     `json:"maxResults"`
    Total      int     `json:"total"`
    Issues     []Issue `json:"issues"`
}

// Issue is a raw search result. Fields stays raw because custom field ids
// (sprints, points) are configurable and the projector decides which keys
// to decode; a key that is absent here is structurally absent upstream.
type Issue struct {
    Key    string                     `json:"key"`
    Fields map[string]json.RawMessage `json:"fields"`
}

// Sprint is a sprint record inside the configured sprints custom field.
type Sprint struct {
    ID        int64  `json:"id"`
    Name      string `json:"name"`
    State     string `json:"state"`
    StartDate string `json:"startDate"`
}

type searchRequest struct {
    JQL        string `json:"jql"`
    MaxResults int    `json:"maxResults"`
    StartAt    int    `json:"startAt"`
}

type Client struct {
    baseURL string
    basic   string
    http    *http.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    basic := strings.TrimSpace(cfg.JiraBasicAuth)
    if basic == "" && cfg.JiraUsername != "" {
        basic = base64.StdEncoding.EncodeToString([]byte(cfg.JiraUsername + ":" + cfg.JiraToken))
    }
    return &Client{
        baseURL: strings.TrimRight(cfg.JiraBaseURL, "/"),
        basic:   basic,
        http:    &http.Client{ Timeout: cfg.HTTPTimeout },
        log:     log,
    }
}

// Endpoint returns the configured base URL, used to label exported reports.
func (c *Client) Endpoint() string { return c.baseURL }

// Search fetches one page [startAt, startAt+max) of the given JQL query.
func (c *Client) Search(ctx context.Context, jql string, startAt, max int) (*SearchPage, error) {
    if c.baseURL == "" { return nil, errors.New("jira: empty baseURL") }
    if jql == "" { return nil, errors.New("jira: empty jql") }
    body, err := json.Marshal(searchRequest{JQL: jql, MaxResults: max, StartAt: startAt})
    if err != nil { return nil, err }
    u := c.baseURL + "/rest/api/2/search"
    var lastErr error
    for attempt := 0; attempt < 3; attempt++ {
        req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
        if err != nil { return nil, err }
        req.Header.Set("Content-Type", "application/json")
        if c.basic != "" { req.Header.Set("Authorization", "Basic "+c.basic) }
        resp, err := c.http.Do(req)
        if err != nil { lastErr = err } else {
            page, retry, err := decodePage(resp)
            if err == nil { return page, nil }
            if !retry { return nil, err }
            lastErr = err
        }
        // backoff on transport errors and 429/5xx
        time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
    }
    return nil, lastErr
}

func decodePage(resp *http.Response) (*SearchPage, bool, error) {
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        err := fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
        return nil, resp.StatusCode == 429 || resp.StatusCode >= 500, err
    }
    var page SearchPage
    if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
        return nil, false, fmt.Errorf("jira: decode search page: %w", err)
    }
    return &page, false, nil
}

// SearchAll fetches the entire result set of the query, page by page. The
// server's reported total is authoritative and re-read on every page, so a
// result set that changes mid-iteration moves the bound: a growing total
// extends the loop, a shrinking total ends it early and silently drops
// issues that would have appeared on later pages. Any page failure aborts
// with no partial result.
func (c *Client) SearchAll(ctx context.Context, jql string, pageSize int) ([]Issue, error) {
    if pageSize <= 0 { pageSize = 100 }
    var out []Issue
    startAt := 0
    knownTotal := startAt + 1 // sentinel, guarantees at least one fetch
    for startAt <= knownTotal {
        page, err := c.Search(ctx, jql, startAt, pageSize)
        if err != nil { return nil, err }
        out = append(out, page.Issues...)
        c.log.Info().Int("start_at", startAt).Int("total", page.Total).Int("page_issues", len(page.Issues)).Msg("jira search page")
        knownTotal = page.Total - 1
        startAt += pageSize
    }
    return out, nil
}
