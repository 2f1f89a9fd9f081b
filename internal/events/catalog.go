// Package events defines the payloads published when a catalog comparison finds tracked-field changes.
package events

import "time"

// ExerciseVideoChangedType is the event_type header value of ExerciseVideoChanged.
const ExerciseVideoChangedType = "exercise.video_changed"

// ExerciseVideoChanged is emitted for each exercise whose tracked field changed between two catalogs.
type ExerciseVideoChanged struct {
	EventID      string    `json:"event_id"`
	Exercise     string    `json:"exercise"`
	Workout      string    `json:"workout"`
	Field        string    `json:"field"`
	OldValue     string    `json:"old_value"`
	NewValue     string    `json:"new_value"`
	BaseSource   string    `json:"base_source,omitempty"`
	TargetSource string    `json:"target_source,omitempty"`
	DetectedAt   time.Time `json:"detected_at"`
}
