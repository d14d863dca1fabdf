package domain

import "time"

// Unassigned is the sentinel assignee for issues whose assignee reference is
// absent in the source. An assignee present with an empty display name is
// kept as the empty string, not replaced by this sentinel.
const Unassigned = "Unassigned"

// BacklogRow is one flattened issue entry in a snapshot. Rows are built
// fresh every run and never mutated afterwards. IssueID is the sole join
// key across runs; rows are never matched by title or position.
type BacklogRow struct {
    CaptureDate time.Time `json:"captureDate"`
    IssueID     string    `json:"issueId"`
    IssueTitle  string    `json:"issueTitle"`
    IssueType   string    `json:"issueType"`
    EpicID      string    `json:"epicId,omitempty"`
    EpicTitle   string    `json:"epicTitle,omitempty"`
    SprintName  string    `json:"sprintName,omitempty"`
    Priority    string    `json:"priority,omitempty"`
    Status      string    `json:"status"`
    Points      *int      `json:"points,omitempty"`
    AssignedTo  string    `json:"assignedTo"`
}

// Snapshot is the full row set of one run. The capture date lives in the
// rows and in the snapshot file name; once persisted a snapshot is read-only.
type Snapshot []BacklogRow

// RunRecord is the in-memory bookkeeping for the most recent report run.
type RunRecord struct {
    StartedAt    time.Time `json:"startedAt"`
    FinishedAt   time.Time `json:"finishedAt"`
    Issues       int       `json:"issues"`
    Added        int       `json:"added"`
    Changed      int       `json:"changed"`
    BaselineDate string    `json:"baselineDate,omitempty"`
    ReportFile   string    `json:"reportFile,omitempty"`
    SnapshotFile string    `json:"snapshotFile,omitempty"`
    OK           bool      `json:"ok"`
    Error        string    `json:"error,omitempty"`
}
