/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package export

import (
    "fmt"
    "time"

    "github.com/HamedShams/backlog-pulse/internal/domain"
    "github.com/HamedShams/backlog-pulse/internal/report"
    "github.com/xuri/excelize/v2"
)

var header = []any{
    "CaptureDate", "IssueID", "IssueTitle", "IssueType", "EpicID", "EpicTitle",
    "SprintName", "Priority", "Status", "Points", "AssignedTo",
}

// Workbook writes the full backlog plus one sheet per non-empty diff bucket
// to an xlsx file. The source endpoint is recorded on an Info sheet so a
// report can be traced back to the instance it was pulled from.
func Workbook(path string, rows domain.Snapshot, diff report.Result, endpoint string) error {
    f := excelize.NewFile()
    defer f.Close()
    if err := f.SetSheetName("Sheet1", "Backlog"); err != nil { return err }
    if err := writeRows(f, "Backlog", rows); err != nil { return err }

    buckets := []struct {
        name string
        rows []domain.BacklogRow
    }{
        {"New Stories", diff.Added.Story},
        {"New Bugs", diff.Added.Bug},
        {"New RAID", diff.Added.Raid},
        {"Changed Stories", diff.Changed.Story},
        {"Changed Bugs", diff.Changed.Bug},
        {"Changed RAID", diff.Changed.Raid},
    }
    for _, b := range buckets {
        if len(b.rows) == 0 { continue }
        if _, err := f.NewSheet(b.name); err != nil { return err }
        if err := writeRows(f, b.name, b.rows); err != nil { return err }
    }

    if _, err := f.NewSheet("Info"); err != nil { return err }
    info := [][]any{
        {"Source", endpoint},
        {"Generated", time.Now().Format(time.RFC3339)},
        {"Rows", len(rows)},
    }
    for i, kv := range info {
        cell, err := excelize.CoordinatesToCellName(1, i+1)
        if err != nil { return err }
        if err := f.SetSheetRow("Info", cell, &kv); err != nil { return err }
    }

    if err := f.SaveAs(path); err != nil {
        return fmt.Errorf("export: save %s: %w", path, err)
    }
    return nil
}

func writeRows(f *excelize.File, sheet string, rows []domain.BacklogRow) error {
    if err := f.SetSheetRow(sheet, "A1", &header); err != nil { return err }
    for i, r := range rows {
        cell, err := excelize.CoordinatesToCellName(1, i+2)
        if err != nil { return err }
        var points any
        if r.Points != nil { points = *r.Points }
        vals := []any{
            r.CaptureDate.Format("2006-01-02"), r.IssueID, r.IssueTitle, r.IssueType,
            r.EpicID, r.EpicTitle, r.SprintName, r.Priority, r.Status, points, r.AssignedTo,
        }
        if err := f.SetSheetRow(sheet, cell, &vals); err != nil { return err }
    }
    return nil
}
