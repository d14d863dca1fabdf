package report

import (
    "encoding/json"
    "testing"
    "time"

    "github.com/HamedShams/backlog-pulse/internal/adapters/jira"
    "github.com/HamedShams/backlog-pulse/internal/domain"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

var testProjector = Projector{SprintField: "customfield_10020", PointsField: "customfield_10026"}

var captureDate = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func rawFields(t *testing.T, m map[string]any) map[string]json.RawMessage {
    t.Helper()
    out := make(map[string]json.RawMessage, len(m))
    for k, v := range m {
        b, err := json.Marshal(v)
        require.NoError(t, err)
        out[k] = b
    }
    return out
}

func baseFields(t *testing.T, extra map[string]any) map[string]json.RawMessage {
    m := map[string]any{
        "summary":   "Checkout flow rework",
        "status":    map[string]any{"name": "In Progress"},
        "issuetype": map[string]any{"name": "Story"},
    }
    for k, v := range extra { m[k] = v }
    return rawFields(t, m)
}

func TestRow_FullProjection(t *testing.T) {
    issue := jira.Issue{Key: "PROJ-1", Fields: baseFields(t, map[string]any{
        "parent":   map[string]any{"key": "PROJ-100", "fields": map[string]any{"summary": "Payments epic"}},
        "priority": map[string]any{"name": "High"},
        "assignee": map[string]any{"displayName": "Dana Ito"},
        "customfield_10026": 5.0,
        "customfield_10020": []map[string]any{{"name": "Sprint 12", "startDate": "2024-04-22T00:00:00.000Z"}},
    })}
    row, err := testProjector.Row(issue, captureDate)
    require.NoError(t, err)
    assert.Equal(t, "PROJ-1", row.IssueID)
    assert.Equal(t, "Checkout flow rework", row.IssueTitle)
    assert.Equal(t, "Story", row.IssueType)
    assert.Equal(t, "PROJ-100", row.EpicID)
    assert.Equal(t, "Payments epic", row.EpicTitle)
    assert.Equal(t, "Sprint 12", row.SprintName)
    assert.Equal(t, "High", row.Priority)
    assert.Equal(t, "In Progress", row.Status)
    require.NotNil(t, row.Points)
    assert.Equal(t, 5, *row.Points)
    assert.Equal(t, "Dana Ito", row.AssignedTo)
    assert.Equal(t, captureDate, row.CaptureDate)
}

func TestRow_SprintSelection(t *testing.T) {
    issue := jira.Issue{Key: "PROJ-2", Fields: baseFields(t, map[string]any{
        "customfield_10020": []map[string]any{
            {"name": "January", "startDate": "2024-01-01T00:00:00.000Z"},
            {"name": "March", "startDate": "2024-03-01T00:00:00.000Z"},
        },
    })}
    row, err := testProjector.Row(issue, captureDate)
    require.NoError(t, err)
    assert.Equal(t, "March", row.SprintName, "latest start date wins")
}

func TestRow_SprintTieKeepsFirstEncountered(t *testing.T) {
    issue := jira.Issue{Key: "PROJ-3", Fields: baseFields(t, map[string]any{
        "customfield_10020": []map[string]any{
            {"name": "Alpha", "startDate": "2024-03-01T00:00:00.000Z"},
            {"name": "Beta", "startDate": "2024-03-01T00:00:00.000Z"},
        },
    })}
    row, err := testProjector.Row(issue, captureDate)
    require.NoError(t, err)
    assert.Equal(t, "Alpha", row.SprintName)
}

func TestRow_NoSprints(t *testing.T) {
    row, err := testProjector.Row(jira.Issue{Key: "PROJ-4", Fields: baseFields(t, nil)}, captureDate)
    require.NoError(t, err)
    assert.Empty(t, row.SprintName)
}

func TestRow_AssigneeDefault(t *testing.T) {
    // no assignee reference at all: sentinel
    row, err := testProjector.Row(jira.Issue{Key: "PROJ-5", Fields: baseFields(t, nil)}, captureDate)
    require.NoError(t, err)
    assert.Equal(t, domain.Unassigned, row.AssignedTo)

    // explicit null reference: still the sentinel
    row, err = testProjector.Row(jira.Issue{Key: "PROJ-6", Fields: baseFields(t, map[string]any{"assignee": nil})}, captureDate)
    require.NoError(t, err)
    assert.Equal(t, domain.Unassigned, row.AssignedTo)

    // assignee present with empty display name: kept empty, not defaulted
    row, err = testProjector.Row(jira.Issue{Key: "PROJ-7", Fields: baseFields(t, map[string]any{"assignee": map[string]any{"displayName": ""}})}, captureDate)
    require.NoError(t, err)
    assert.Equal(t, "", row.AssignedTo)
}

func TestRow_PointsAbsentStaysAbsent(t *testing.T) {
    row, err := testProjector.Row(jira.Issue{Key: "PROJ-8", Fields: baseFields(t, nil)}, captureDate)
    require.NoError(t, err)
    assert.Nil(t, row.Points, "absent points must not become zero")

    row, err = testProjector.Row(jira.Issue{Key: "PROJ-9", Fields: baseFields(t, map[string]any{"customfield_10026": nil})}, captureDate)
    require.NoError(t, err)
    assert.Nil(t, row.Points)

    row, err = testProjector.Row(jira.Issue{Key: "PROJ-10", Fields: baseFields(t, map[string]any{"customfield_10026": 2.5})}, captureDate)
    require.NoError(t, err)
    require.NotNil(t, row.Points)
    assert.Equal(t, 3, *row.Points)
}

func TestRow_MalformedRecords(t *testing.T) {
    cases := []struct {
        name  string
        issue jira.Issue
    }{
        {"empty key", jira.Issue{Key: "", Fields: baseFields(t, nil)}},
        {"missing status", jira.Issue{Key: "PROJ-11", Fields: rawFields(t, map[string]any{
            "summary": "x", "issuetype": map[string]any{"name": "Bug"},
        })}},
        {"null status", jira.Issue{Key: "PROJ-12", Fields: rawFields(t, map[string]any{
            "summary": "x", "status": nil, "issuetype": map[string]any{"name": "Bug"},
        })}},
        {"missing issuetype", jira.Issue{Key: "PROJ-13", Fields: rawFields(t, map[string]any{
            "summary": "x", "status": map[string]any{"name": "Open"},
        })}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := testProjector.Row(tc.issue, captureDate)
            require.ErrorIs(t, err, ErrMalformedRecord)
        })
    }
}
