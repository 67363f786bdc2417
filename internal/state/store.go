// Package state persists reconciliation and plugin-load history using SQLite.
// It backs the `grammar history` command and the HTTP API, and is optional:
// commands that run without a state database pass a nil Store around.
package state

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ReconcileRun records a single grammar reconciliation pass.
type ReconcileRun struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ReferencePath string     `json:"reference_path"`
	CommunityPath string     `json:"community_path"`
	MismatchCount int        `json:"mismatch_count"`
	Report        string     `json:"report,omitempty"`
}

// PluginLoad records one plugin load attempt within a lint session.
type PluginLoad struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Specifier string    `json:"specifier"`
	OK        bool      `json:"ok"`
	Message   string    `json:"message,omitempty"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// Store persists run history.
type Store interface {
	// CreateReconcileRun inserts a new in-progress reconcile run.
	CreateReconcileRun(referencePath, communityPath string) (*ReconcileRun, error)

	// CompleteReconcileRun records the outcome of a reconcile run.
	CompleteReconcileRun(id string, mismatchCount int, report string) error

	// GetReconcileRun retrieves a reconcile run by ID.
	GetReconcileRun(id string) (*ReconcileRun, error)

	// LatestReconcileRun retrieves the most recent reconcile run, or nil
	// when none have been recorded.
	LatestReconcileRun() (*ReconcileRun, error)

	// ListReconcileRuns retrieves the most recent runs, newest first,
	// up to the given limit.
	ListReconcileRuns(limit int) ([]*ReconcileRun, error)

	// RecordPluginLoad records a plugin load attempt.
	RecordPluginLoad(load *PluginLoad) error

	// ListPluginLoads retrieves the load attempts for a lint session in
	// the order they happened.
	ListPluginLoads(sessionID string) ([]*PluginLoad, error)

	// Close releases the underlying database.
	Close() error
}
