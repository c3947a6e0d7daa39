package player

import (
	"encoding/json"

	"github.com/samber/mo"
)

// EndReason tells the caller why a session finished.
type EndReason string

const (
	EndByCompletion EndReason = "playback_completion"
	EndByUser       EndReason = "user"
)

// Result is handed back when a session finishes. Position and duration are only
// reported when the user ended playback, and duration only when it is known.
type Result struct {
	EndBy    EndReason
	Index    int
	Position mo.Option[int64]
	Duration mo.Option[int64]
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EndBy    EndReason `json:"end_by"`
		Index    int       `json:"index"`
		Position *int64    `json:"position,omitempty"`
		Duration *int64    `json:"duration,omitempty"`
	}{
		EndBy:    r.EndBy,
		Index:    r.Index,
		Position: r.Position.ToPointer(),
		Duration: r.Duration.ToPointer(),
	})
}
