package content

// Status is the lifecycle state of an item, derived on every render
// from the latest fetched snapshot.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
	StatusCompleted Status = "completed"
)

// pendingStatuses are the server status tokens that mean ingestion is
// still in flight, including the archive-upload variants.
var pendingStatuses = map[string]bool{
	"pending":         true,
	"processing":      true,
	"queued":          true,
	"waiting":         true,
	"created":         true,
	"uploading":       true,
	"drive-uploading": true,
	"drive_upload":    true,
	"drive_pending":   true,
	"init":            true,
}

var failureStatuses = map[string]bool{
	"failed": true,
	"error":  true,
}

var completedStatuses = map[string]bool{
	"completed": true,
	"uploaded":  true,
}

// Classify maps an item's media record to its lifecycle state.
//
// The server's status vocabulary is not atomic with its metadata
// writes, so metadata presence corroborates the status text: a failure
// (or missing) status before any metadata ever arrived is treated as
// still in flight, not a terminal failure. That stops items from
// flashing FAILED when a premature failure event races the real result.
func Classify(m Media) Status {
	status := m.DownloadStatus
	lacksMetadata := m.ThumbnailURL == "" && m.DriveFileID == "" && m.Title == "" && m.Author == ""

	switch {
	case pendingStatuses[status]:
		return StatusPending
	case (status == "" || failureStatuses[status]) && lacksMetadata:
		// soft pending
		return StatusPending
	case failureStatuses[status]:
		return StatusFailed
	case completedStatuses[status]:
		return StatusCompleted
	default:
		// Unrecognized status with metadata present: terminal success.
		return StatusCompleted
	}
}

// CountPending returns how many items still classify as PENDING.
func CountPending(items []Item) int {
	n := 0
	for _, it := range items {
		if Classify(it.Media) == StatusPending {
			n++
		}
	}
	return n
}
