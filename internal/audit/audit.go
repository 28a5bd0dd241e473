// Package audit records engine mutations in an activity log.
package audit

import (
	"github.com/fentz26/cadence/internal/models"
	"github.com/fentz26/cadence/internal/store"
)

// Recorder appends activity entries for state-mutating actions. Recording is
// best-effort: a failed append never fails the mutation it describes.
type Recorder struct {
	store *store.Store
}

// NewRecorder creates a new activity recorder.
func NewRecorder(s *store.Store) *Recorder {
	return &Recorder{store: s}
}

// Record writes one activity entry.
func (r *Recorder) Record(action, entityID, detail string) (*models.AuditEntry, error) {
	return r.store.AppendAudit(action, entityID, detail)
}

// Recent returns the most recent activity entries, newest first.
func (r *Recorder) Recent(limit int) ([]models.AuditEntry, error) {
	return r.store.ListAudit(limit)
}
