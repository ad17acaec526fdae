package models

import "time"

// Event is the envelope every message on the bus travels in.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // journey.run.requested, journey.run.completed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// RunRequest asks the service to execute one pipeline run. It arrives
// either as an HTTP body or as the data of a journey.run.requested
// event.
type RunRequest struct {
	InputPath  string   `json:"input_path"`
	OutputPath string   `json:"output_path"`
	Title      string   `json:"title,omitempty"`
	Palette    []string `json:"palette,omitempty"`
}
