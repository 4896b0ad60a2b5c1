package ingest

// Result holds the outcome of an import.
type Result struct {
	SessionID         int64 `json:"session_id"`
	ExercisesReceived int   `json:"exercises_received"`
	ExercisesInserted int   `json:"exercises_inserted"`
	BlocksSkipped     int   `json:"blocks_skipped"`

	SetsReceived int   `json:"sets_received"`
	SetsInserted int64 `json:"sets_inserted"`

	Message string `json:"message,omitempty"`
}
