package model

// FetchStatus represents the status of an image preload task
type FetchStatus string

const (
	// FetchStatusPending means the task is queued but not started
	FetchStatusPending FetchStatus = "Pending"

	// FetchStatusFetching means the image is being read or downloaded
	FetchStatusFetching FetchStatus = "Fetching"

	// FetchStatusCancelled means the task was cancelled before delivering
	FetchStatusCancelled FetchStatus = "Cancelled"

	// FetchStatusCompleted means the image was decoded successfully
	FetchStatusCompleted FetchStatus = "Completed"

	// FetchStatusError means the fetch failed with an error
	FetchStatusError FetchStatus = "Error"
)

// String returns the string representation of FetchStatus
func (fs FetchStatus) String() string {
	return string(fs)
}

// IsActive returns true if the task holds a fetch slot
func (fs FetchStatus) IsActive() bool {
	return fs == FetchStatusFetching
}

// IsFinished returns true if the task is in a finished state (completed, cancelled, or error)
func (fs FetchStatus) IsFinished() bool {
	return fs == FetchStatusCompleted || fs == FetchStatusCancelled || fs == FetchStatusError
}
