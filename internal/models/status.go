package models

// Status/progress sync rules. Either a status write or a progress write is
// authoritative; the counterpart field is always derived so that
// status == completed <=> progress == 100 holds after every update.

// SyncFromStatus derives the progress value implied by a status write.
func SyncFromStatus(status TaskStatus) (TaskStatus, int, error) {
	switch status {
	case TaskStatusCompleted:
		return TaskStatusCompleted, 100, nil
	case TaskStatusInProgress:
		return TaskStatusInProgress, 50, nil
	case TaskStatusTodo:
		return TaskStatusTodo, 0, nil
	}
	return "", 0, InvalidInputf("unknown task status %q", status)
}

// SyncFromProgress derives the status implied by a progress write.
// Progress must be within [0, 100].
func SyncFromProgress(progress int) (TaskStatus, int, error) {
	if progress < 0 || progress > 100 {
		return "", 0, InvalidRangef("progress %d outside [0, 100]", progress)
	}
	switch {
	case progress == 100:
		return TaskStatusCompleted, progress, nil
	case progress == 0:
		return TaskStatusTodo, progress, nil
	}
	return TaskStatusInProgress, progress, nil
}
