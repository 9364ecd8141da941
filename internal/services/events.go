package services

// Event is a single progress-stream message emitted while an import runs.
// Exactly one terminal event (complete, cancelled or error) ends the stream.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Event types emitted by the import pipeline
const (
	EventProgress  = "progress"
	EventComplete  = "complete"
	EventCancelled = "cancelled"
	EventError     = "error"
)

// RowResult is the outcome of a single pushed row
type RowResult struct {
	RowNumber int    `json:"rowNumber"`
	Key       string `json:"key"`
	Success   bool   `json:"success"`
	Operation string `json:"operation,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchProgress is the payload of a progress event, emitted once per batch
type BatchProgress struct {
	Processed    int         `json:"processed"`
	Total        int         `json:"total"`
	Succeeded    int         `json:"succeeded"`
	Failed       int         `json:"failed"`
	CreatedCount int         `json:"createdCount"`
	UpdatedCount int         `json:"updatedCount"`
	BatchResults []RowResult `json:"batchResults"`
}

// ImportOutcome is the payload of the complete and cancelled events
type ImportOutcome struct {
	SessionID    string `json:"sessionId"`
	Processed    int    `json:"processed"`
	Total        int    `json:"total"`
	Succeeded    int    `json:"succeeded"`
	Failed       int    `json:"failed"`
	CreatedCount int    `json:"createdCount"`
	UpdatedCount int    `json:"updatedCount"`
	DurationMs   int64  `json:"durationMs"`
}

// ImportError is the payload of the error event
type ImportError struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
	Resumable bool   `json:"resumable"`
}

func progressEvent(p BatchProgress) Event {
	return Event{Type: EventProgress, Data: p}
}

func completeEvent(o ImportOutcome) Event {
	return Event{Type: EventComplete, Data: o}
}

func cancelledEvent(o ImportOutcome) Event {
	return Event{Type: EventCancelled, Data: o}
}

func errorEvent(e ImportError) Event {
	return Event{Type: EventError, Data: e}
}
