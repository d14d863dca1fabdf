package export

import (
    "path/filepath"
    "testing"
    "time"

    "github.com/HamedShams/backlog-pulse/internal/domain"
    "github.com/HamedShams/backlog-pulse/internal/report"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
    day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
    points := 5
    rows := domain.Snapshot{
        {CaptureDate: day, IssueID: "PROJ-1", IssueTitle: "Checkout flow rework", IssueType: "Story", Status: "Open", Points: &points, AssignedTo: "Dana Ito"},
        {CaptureDate: day, IssueID: "PROJ-2", IssueType: "Bug", Status: "Open", AssignedTo: domain.Unassigned},
    }
    diff := report.Result{}
    diff.Added.Story = rows[:1]

    path := filepath.Join(t.TempDir(), "report_2024-05-01.xlsx")
    require.NoError(t, Workbook(path, rows, diff, "https://jira.example.com"))

    f, err := excelize.OpenFile(path)
    require.NoError(t, err)
    defer f.Close()

    v, err := f.GetCellValue("Backlog", "A1")
    require.NoError(t, err)
    assert.Equal(t, "CaptureDate", v)
    v, err = f.GetCellValue("Backlog", "B2")
    require.NoError(t, err)
    assert.Equal(t, "PROJ-1", v)
    v, err = f.GetCellValue("Backlog", "J2")
    require.NoError(t, err)
    assert.Equal(t, "5", v)

    // only non-empty buckets get sheets
    sheets := f.GetSheetList()
    assert.Contains(t, sheets, "New Stories")
    assert.NotContains(t, sheets, "New Bugs")
    assert.NotContains(t, sheets, "Changed Stories")

    v, err = f.GetCellValue("New Stories", "B2")
    require.NoError(t, err)
    assert.Equal(t, "PROJ-1", v)

    v, err = f.GetCellValue("Info", "B1")
    require.NoError(t, err)
    assert.Equal(t, "https://jira.example.com", v)
}
