package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// PublishJob records the job as pending and hands it to the workers. If the
// broker refuses the message the stored record is moved to failed so clients
// polling the job do not wait forever.
func (q *QueueService) PublishJob(ctx context.Context, job *models.CropJob) error {
	job.Status = models.StatusPending
	if err := q.storage.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("failed to record job: %w", err)
	}

	msg, err := newPublishing(job)
	if err != nil {
		return err
	}

	// default exchange, routed by queue name
	if err := q.channel.Publish("", q.queueName, false, false, msg); err != nil {
		job.Status = models.StatusFailed
		job.Error = "queue unavailable"
		q.storeJobResult(ctx, job)
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Crop job queued",
		zap.String("job_id", job.ID),
		zap.String("queue", q.queueName))
	return nil
}

func newPublishing(job *models.CropJob) (amqp.Publishing, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal job: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    job.ID,
		Timestamp:    time.Now(),
	}, nil
}
