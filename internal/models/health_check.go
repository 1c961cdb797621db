package models

import "time"

// HealthCheck reports backend status. OutputPath is where the next save
// will be written; it is empty when the document directory is unusable.
type HealthCheck struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Services   map[string]string `json:"services"`
	OutputPath string            `json:"output_path,omitempty"`
	Sessions   int               `json:"sessions"`
}
