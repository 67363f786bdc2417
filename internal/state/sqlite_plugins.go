package state

import (
	"fmt"
	"log/slog"
	"time"
)

// RecordPluginLoad records a plugin load attempt.
func (s *SQLiteStore) RecordPluginLoad(load *PluginLoad) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if load.ID == "" {
		load.ID = generateID()
	}
	if load.LoadedAt.IsZero() {
		load.LoadedAt = time.Now().UTC()
	}

	ok := 0
	if load.OK {
		ok = 1
	}

	s.logger.Debug("recording plugin load",
		slog.String("session", load.SessionID),
		slog.String("specifier", load.Specifier),
		slog.Bool("ok", load.OK))

	_, err := s.db.Exec(
		`INSERT INTO plugin_loads (id, session_id, specifier, ok, message, loaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		load.ID, load.SessionID, load.Specifier, ok, load.Message, formatTime(load.LoadedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record plugin load: %w", err)
	}

	return nil
}

// ListPluginLoads retrieves the load attempts for a lint session in the
// order they happened.
func (s *SQLiteStore) ListPluginLoads(sessionID string) ([]*PluginLoad, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, specifier, ok, message, loaded_at
		 FROM plugin_loads WHERE session_id = ? ORDER BY loaded_at, rowid`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plugin loads: %w", err)
	}
	defer rows.Close()

	var loads []*PluginLoad
	for rows.Next() {
		load := &PluginLoad{}
		var ok int
		var loadedAt string

		if err := rows.Scan(&load.ID, &load.SessionID, &load.Specifier, &ok, &load.Message, &loadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plugin load: %w", err)
		}

		load.OK = ok != 0
		if load.LoadedAt, err = parseTime(loadedAt); err != nil {
			return nil, err
		}
		loads = append(loads, load)
	}

	return loads, rows.Err()
}
