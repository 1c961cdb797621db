package queue

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/phambaophuc/image-cropper/internal/services/processor"
	"github.com/phambaophuc/image-cropper/pkg/utils"
	"go.uber.org/zap"
)

func (q *QueueService) processJob(ctx context.Context, job *models.CropJob) (*models.CroppedImage, error) {
	imageData, err := q.fetchInput(ctx, job)
	if err != nil {
		return nil, err
	}

	res, err := q.processor.ProcessCrop(bytes.NewReader(imageData), &job.Request)
	if err != nil {
		return nil, fmt.Errorf("failed to crop image: %w", err)
	}
	if res.Rotated {
		q.logger.Warn("Crop ignores view rotation", zap.String("job_id", job.ID))
	}

	saved, err := q.persister.Save(res.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to save cropped image: %w", err)
	}

	result := &models.CroppedImage{
		ID:        job.ID,
		PixelRect: processor.ToPixelRect(res.PixelRect),
		Size:      models.PixelSize{Width: res.Image.Bounds().Dx(), Height: res.Image.Bounds().Dy()},
		Zoom:      res.Zoom,
		Rotated:   res.Rotated,
		Format:    saved.Format,
		FileSize:  int64(len(saved.Data)),
		Saved:     true,
		Path:      saved.Path,
		CroppedAt: time.Now(),
	}

	if q.storage.RemoteEnabled() {
		filename := utils.GenerateFilename(job.ID, saved.Format)
		url, err := q.storage.Upload(ctx, saved.Data, filename)
		if err != nil {
			q.logger.Warn("Failed to mirror cropped image", zap.String("job_id", job.ID), zap.Error(err))
		}
		result.URL = url
	}

	return result, nil
}

func (q *QueueService) fetchInput(ctx context.Context, job *models.CropJob) ([]byte, error) {
	switch {
	case job.StoragePath != "":
		return q.storage.Download(ctx, job.StoragePath)
	case job.ImageURL != "":
		data, _, err := utils.DownloadImage(ctx, job.ImageURL, q.maxImageSize, q.allowedTypes)
		if err != nil {
			return nil, fmt.Errorf("failed to download image: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("job has no image source")
	}
}
