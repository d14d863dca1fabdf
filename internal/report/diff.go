/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "strings"

    "github.com/HamedShams/backlog-pulse/internal/domain"
)

// Buckets partitions rows by issue category. Rows matching no named
// category are classified but not surfaced anywhere.
type Buckets struct {
    Story []domain.BacklogRow `json:"story"`
    Bug   []domain.BacklogRow `json:"bug"`
    Raid  []domain.BacklogRow `json:"raid"`
}

func (b Buckets) Total() int { return len(b.Story) + len(b.Bug) + len(b.Raid) }

// Result of comparing a run against its baseline snapshot.
type Result struct {
    Added   Buckets `json:"added"`
    Changed Buckets `json:"changed"`
}

// Classify compares the current snapshot against the baseline and buckets
// newly introduced rows and rows whose status changed. A nil baseline
// yields an empty result for both sets: without a comparison point nothing
// is reported, not even as "new". Rows are matched by IssueID only;
// duplicate ids in the baseline are not deduplicated, and a differing
// status on any duplicate qualifies the row as changed.
func Classify(current, baseline domain.Snapshot) Result {
    var res Result
    if baseline == nil { return res }
    byID := make(map[string][]domain.BacklogRow, len(baseline))
    for _, b := range baseline { byID[b.IssueID] = append(byID[b.IssueID], b) }
    for _, row := range current {
        matches, ok := byID[row.IssueID]
        if !ok {
            res.Added.put(row, false)
            continue
        }
        for _, m := range matches {
            if m.Status != row.Status {
                res.Changed.put(row, true)
                break
            }
        }
    }
    return res
}

// put places a row into its category bucket. Story and Bug require an exact
// type match. The raid bucket matches the "RAID" substring; changed-item
// classification additionally accepts the Dependency/Impediment/Risk/
// Assumption substrings, a deliberate asymmetry carried over from the
// consumers of this report.
func (b *Buckets) put(row domain.BacklogRow, changed bool) {
    switch {
    case row.IssueType == "Story":
        b.Story = append(b.Story, row)
    case row.IssueType == "Bug":
        b.Bug = append(b.Bug, row)
    case isRaid(row.IssueType, changed):
        b.Raid = append(b.Raid, row)
    }
}

func isRaid(issueType string, changed bool) bool {
    if strings.Contains(issueType, "RAID") { return true }
    if !changed { return false }
    for _, needle := range []string{"Dependency", "Impediment", "Risk", "Assumption"} {
        if strings.Contains(issueType, needle) { return true }
    }
    return false
}
