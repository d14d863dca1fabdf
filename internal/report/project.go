/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "encoding/json"
    "errors"
    "fmt"
    "math"
    "time"

    "github.com/HamedShams/backlog-pulse/internal/adapters/jira"
    "github.com/HamedShams/backlog-pulse/internal/domain"
)

// ErrMalformedRecord marks an issue missing a structurally required field
// (key, status, issue type). The run aborts on it; no partial exports.
var ErrMalformedRecord = errors.New("malformed issue record")

// Projector flattens raw Jira issues into backlog rows. Field ids for
// sprints and story points vary per Jira instance and come from config.
type Projector struct {
    SprintField string
    PointsField string
}

type namedField struct {
    Name string `json:"name"`
}

type personField struct {
    DisplayName string `json:"displayName"`
}

type parentField struct {
    Key    string `json:"key"`
    Fields struct {
        Summary string `json:"summary"`
    } `json:"fields"`
}

// Row projects one raw issue into a backlog row captured at the given date.
func (p Projector) Row(issue jira.Issue, capture time.Time) (domain.BacklogRow, error) {
    var row domain.BacklogRow
    if issue.Key == "" {
        return row, fmt.Errorf("%w: issue without key", ErrMalformedRecord)
    }
    status := &namedField{}
    if !decodeField(issue.Fields, "status", status) {
        return row, fmt.Errorf("%w: %s: missing status", ErrMalformedRecord, issue.Key)
    }
    issueType := &namedField{}
    if !decodeField(issue.Fields, "issuetype", issueType) {
        return row, fmt.Errorf("%w: %s: missing issuetype", ErrMalformedRecord, issue.Key)
    }

    row = domain.BacklogRow{
        CaptureDate: capture,
        IssueID:     issue.Key,
        IssueType:   issueType.Name,
        Status:      status.Name,
        SprintName:  p.latestSprint(issue.Fields),
        AssignedTo:  domain.Unassigned,
    }
    var summary string
    if decodeField(issue.Fields, "summary", &summary) { row.IssueTitle = summary }
    parent := &parentField{}
    if decodeField(issue.Fields, "parent", parent) {
        row.EpicID = parent.Key
        row.EpicTitle = parent.Fields.Summary
    }
    priority := &namedField{}
    if decodeField(issue.Fields, "priority", priority) { row.Priority = priority.Name }
    assignee := &personField{}
    if decodeField(issue.Fields, "assignee", assignee) {
        // present-but-empty display names stay empty; only a missing
        // assignee reference gets the sentinel
        row.AssignedTo = assignee.DisplayName
    }
    var points *float64
    if decodeField(issue.Fields, p.PointsField, &points) && points != nil {
        n := int(math.Round(*points))
        row.Points = &n
    }
    return row, nil
}

// latestSprint returns the name of the sprint with the latest start date, or
// "" when the issue carries none. Ties keep the first-encountered sprint.
func (p Projector) latestSprint(fields map[string]json.RawMessage) string {
    var sprints []jira.Sprint
    if !decodeField(fields, p.SprintField, &sprints) || len(sprints) == 0 { return "" }
    name := ""
    best := time.Time{}
    seen := false
    for _, sp := range sprints {
        at, ok := parseSprintDate(sp.StartDate)
        if !ok { continue }
        if !seen || at.After(best) {
            name, best, seen = sp.Name, at, true
        }
    }
    if !seen { return "" }
    return name
}

func parseSprintDate(s string) (time.Time, bool) {
    if s == "" { return time.Time{}, false }
    layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000-0700", "2006-01-02"}
    for _, l := range layouts {
        if t, err := time.Parse(l, s); err == nil { return t, true }
    }
    return time.Time{}, false
}

// decodeField decodes fields[key] into dst. It reports false when the key is
// absent, JSON null, or does not decode into dst's shape.
func decodeField(fields map[string]json.RawMessage, key string, dst any) bool {
    raw, ok := fields[key]
    if !ok || string(raw) == "null" { return false }
    if err := json.Unmarshal(raw, dst); err != nil { return false }
    return true
}
