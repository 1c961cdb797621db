package queue

import (
	"context"
	"fmt"
	"image"

	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/phambaophuc/image-cropper/internal/services/processor"
	"github.com/phambaophuc/image-cropper/internal/services/storage"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// JobStorage is the part of the storage service the worker needs.
type JobStorage interface {
	SaveJob(ctx context.Context, job *models.CropJob) error
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	RemoteEnabled() bool
}

// Persister writes a finished crop to local storage.
type Persister interface {
	Save(img image.Image) (*storage.SaveResult, error)
}

type QueueService struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	logger       *zap.Logger
	queueName    string
	processor    *processor.ImageProcessor
	storage      JobStorage
	persister    Persister
	maxImageSize int64
	allowedTypes []string
	counts       counters
}

func NewQueueService(
	rabbitmqURL string,
	queueName string,
	processor *processor.ImageProcessor,
	storage JobStorage,
	persister Persister,
	maxImageSize int64,
	allowedTypes []string,
	logger *zap.Logger,
) (*QueueService, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// one unacked job per consumer
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &QueueService{
		conn:         conn,
		channel:      channel,
		logger:       logger,
		queueName:    queueName,
		processor:    processor,
		storage:      storage,
		persister:    persister,
		maxImageSize: maxImageSize,
		allowedTypes: allowedTypes,
	}, nil
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
