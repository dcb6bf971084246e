// Package jobs contains the background tasks run through Asynq.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSnapshotRefresh re-reads the upstream snapshots into the cache so
	// the first report request after expiry does not pay the fetch cost.
	TaskSnapshotRefresh = "snapshot:refresh"
)

// SnapshotRefreshPayload selects which snapshots to refresh. Zero value
// refreshes both.
type SnapshotRefreshPayload struct {
	SkipChart    bool `json:"skipChart,omitempty"`
	SkipVouchers bool `json:"skipVouchers,omitempty"`
}

// NewSnapshotRefreshTask constructs an Asynq task.
func NewSnapshotRefreshTask(payload SnapshotRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSnapshotRefresh, data), nil
}
