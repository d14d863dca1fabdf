/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package snapshot

import (
    "bytes"
    "encoding/json"
    "errors"
    "fmt"
    "io/fs"
    "os"
    "path/filepath"
    "time"

    "github.com/HamedShams/backlog-pulse/internal/domain"
    "github.com/natefinch/atomic"
    "github.com/rs/zerolog"
)

// ErrCorrupt marks a snapshot file that exists but fails to decode. It is
// fatal on purpose: treating it as a missing baseline would silently mask
// data loss.
var ErrCorrupt = errors.New("corrupt snapshot")

const dateFormat = "2006-01-02"

// Store persists one JSON snapshot file per capture date under dir.
type Store struct {
    dir string
    log zerolog.Logger
}

func NewStore(dir string, log zerolog.Logger) *Store {
    if dir == "" { dir = "." }
    return &Store{dir: dir, log: log}
}

// Path returns the snapshot file path for the given date.
func (s *Store) Path(date time.Time) string {
    return filepath.Join(s.dir, "report_"+date.Format(dateFormat)+".json")
}

// TryLoad reads the snapshot for the given date. A missing file is not an
// error and reports ok=false; a file that exists but does not decode is
// ErrCorrupt.
func (s *Store) TryLoad(date time.Time) (domain.Snapshot, bool, error) {
    path := s.Path(date)
    b, err := os.ReadFile(path)
    if errors.Is(err, fs.ErrNotExist) { return nil, false, nil }
    if err != nil { return nil, false, fmt.Errorf("snapshot: read %s: %w", path, err) }
    var rows domain.Snapshot
    if err := json.Unmarshal(b, &rows); err != nil {
        return nil, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
    }
    s.log.Debug().Str("file", path).Int("rows", len(rows)).Msg("snapshot loaded")
    return rows, true, nil
}

// Save writes the snapshot for the given date, replacing any existing file.
// The write goes through a temp file and rename so a concurrent reader
// never observes a partially written snapshot.
func (s *Store) Save(date time.Time, rows domain.Snapshot) error {
    if err := os.MkdirAll(s.dir, 0o755); err != nil {
        return fmt.Errorf("snapshot: mkdir %s: %w", s.dir, err)
    }
    b, err := json.Marshal(rows)
    if err != nil { return fmt.Errorf("snapshot: encode: %w", err) }
    path := s.Path(date)
    if err := atomic.WriteFile(path, bytes.NewReader(b)); err != nil {
        return fmt.Errorf("snapshot: write %s: %w", path, err)
    }
    s.log.Info().Str("file", path).Int("rows", len(rows)).Msg("snapshot saved")
    return nil
}
