package models

import "time"

// CropJob is a single image cropped asynchronously by the queue worker.
// Exactly one of ImageURL and StoragePath is set.
type CropJob struct {
	ID          string        `json:"id"`
	ImageURL    string        `json:"image_url,omitempty"`
	StoragePath string        `json:"storage_path,omitempty"`
	Request     CropRequest   `json:"request"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	Result      *CroppedImage `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
}

type CropJobRequest struct {
	ImageURL    string      `json:"image_url"`
	StoragePath string      `json:"storage_path"`
	Request     CropRequest `json:"request"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
