package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/phambaophuc/image-cropper/internal/geometry"
	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/phambaophuc/image-cropper/internal/services/processor"
	"github.com/phambaophuc/image-cropper/internal/services/storage"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStorage struct {
	mu       sync.Mutex
	states   []string
	files    map[string][]byte
	uploaded []string
	remote   bool
}

func (f *fakeStorage) SaveJob(_ context.Context, job *models.CropJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, job.Status)
	return nil
}

func (f *fakeStorage) Download(_ context.Context, path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (f *fakeStorage) Upload(_ context.Context, _ []byte, filename string) (string, error) {
	f.uploaded = append(f.uploaded, filename)
	return "https://cdn.example/" + filename, nil
}

func (f *fakeStorage) RemoteEnabled() bool { return f.remote }

type fakePersister struct {
	saved image.Image
}

func (f *fakePersister) Save(img image.Image) (*storage.SaveResult, error) {
	f.saved = img
	return &storage.SaveResult{Path: "/docs/croppedImage.png", Format: models.FormatJPEG, Data: []byte("jpeg")}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newTestQueue(st *fakeStorage, p *fakePersister) *QueueService {
	return &QueueService{
		logger:       zap.NewNop(),
		processor:    processor.NewImageProcessor(processor.DefaultQuality),
		storage:      st,
		persister:    p,
		maxImageSize: 10 << 20,
	}
}

func cropRequest() models.CropRequest {
	return models.CropRequest{
		ImageFrame: geometry.NewRect(0, 0, 300, 300),
		CropFrame:  geometry.NewRect(50, 50, 100, 100),
	}
}

func TestRunJobFromURL(t *testing.T) {
	data := pngBytes(t, 1200, 1200)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	st := &fakeStorage{remote: true}
	p := &fakePersister{}
	q := newTestQueue(st, p)

	job := &models.CropJob{ID: "job-1", ImageURL: srv.URL + "/photo.png", Request: cropRequest()}
	q.runJob(context.Background(), job)

	assert.Equal(t, models.StatusCompleted, job.Status, job.Error)
	assert.Equal(t, []string{models.StatusProcessing, models.StatusCompleted}, st.states)
	require.NotNil(t, job.Result)
	assert.Equal(t, models.PixelRect{X: 200, Y: 200, Width: 400, Height: 400}, job.Result.PixelRect)
	assert.True(t, job.Result.Saved)
	assert.Len(t, st.uploaded, 1)
	assert.Contains(t, job.Result.URL, "https://cdn.example/")
	assert.Equal(t, 400, p.saved.Bounds().Dx())
	assert.Equal(t, int64(1), q.Counts().Completed)
}

func TestRunJobFromStorage(t *testing.T) {
	st := &fakeStorage{files: map[string][]byte{"inputs/a.png": pngBytes(t, 300, 300)}}
	q := newTestQueue(st, &fakePersister{})

	job := &models.CropJob{ID: "job-2", StoragePath: "inputs/a.png", Request: cropRequest()}
	q.runJob(context.Background(), job)

	assert.Equal(t, models.StatusCompleted, job.Status, job.Error)
	assert.Empty(t, job.Result.URL)
	assert.Empty(t, st.uploaded)
}

func TestRunJobFailures(t *testing.T) {
	st := &fakeStorage{}
	q := newTestQueue(st, &fakePersister{})

	job := &models.CropJob{ID: "job-3", StoragePath: "missing.png", Request: cropRequest()}
	q.runJob(context.Background(), job)
	assert.Equal(t, models.StatusFailed, job.Status)
	assert.Contains(t, job.Error, "object not found")

	job = &models.CropJob{ID: "job-4", Request: cropRequest()}
	q.runJob(context.Background(), job)
	assert.Equal(t, models.StatusFailed, job.Status)
	assert.Nil(t, job.Result)

	stats := q.Counts()
	assert.Equal(t, int64(2), stats.Failed)
	assert.Zero(t, stats.Completed)
}

func TestNewPublishing(t *testing.T) {
	job := &models.CropJob{ID: "job-5", ImageURL: "https://example.com/a.png", Request: cropRequest(), Status: models.StatusPending}

	msg, err := newPublishing(job)
	require.NoError(t, err)
	assert.Equal(t, "job-5", msg.MessageId)
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)

	var decoded models.CropJob
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, job.ImageURL, decoded.ImageURL)
	assert.Equal(t, job.Request.CropFrame, decoded.Request.CropFrame)
}
