// Package sse implements Server-Sent Events for streaming chapter
// generation progress to connected clients.
package sse

import (
	"time"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventGenerationStarted announces a new generation run.
	EventGenerationStarted EventType = "generation.started"
	// EventGenerationProgress carries a run's completion percentage.
	EventGenerationProgress EventType = "generation.progress"
	// EventGenerationCompleted announces a finished run with its summary.
	EventGenerationCompleted EventType = "generation.completed"
	// EventGenerationFailed announces a run that ended in an error.
	EventGenerationFailed EventType = "generation.failed"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct
// deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// GenerationStartedData is the payload for generation.started events.
type GenerationStartedData struct {
	StartedAt time.Time `json:"started_at"`
	RunID     string    `json:"run_id"`
	Items     int       `json:"items"`
}

// GenerationProgressData is the payload for generation.progress events.
type GenerationProgressData struct {
	RunID   string `json:"run_id"`
	Percent int    `json:"percent"`
}

// GenerationCompletedData is the payload for generation.completed events.
type GenerationCompletedData struct {
	CompletedAt time.Time `json:"completed_at"`
	RunID       string    `json:"run_id"`
	Total       int       `json:"total"`
	Written     int       `json:"written"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
}

// GenerationFailedData is the payload for generation.failed events.
type GenerationFailedData struct {
	FailedAt time.Time `json:"failed_at"`
	RunID    string    `json:"run_id"`
	Error    string    `json:"error"`
}

// HeartbeatEventData is the payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return NewEvent(EventHeartbeat, HeartbeatEventData{ServerTime: time.Now()})
}
