package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

type memoryObjects struct {
	objects map[string][]byte
	types   map[string]string
	failPut bool
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.failPut {
		return nil, errors.New("bucket unavailable")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*in.Key] = body
	m.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := m.objects[*in.Key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (m *memoryObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestReportKey(t *testing.T) {
	at := time.Date(2026, 7, 4, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "reports/jane_doe/2026/07/04/abc.json", ReportKey("Jane_Doe", at, "abc"))
	assert.Equal(t, "reports/bad__name_/2026/07/04/abc.json", ReportKey("bad/.name!", at, "abc"))
	assert.Equal(t, "reports/_/2026/07/04/abc.json", ReportKey("", at, "abc"))
}

func TestReportArchiveStoreAndLoad(t *testing.T) {
	ctx := context.Background()
	objects := newMemoryObjects()
	archive := NewReportArchiveWithClient(objects, "reports", "http://localhost:9000/reports/")
	archive.now = func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) }

	report := entity.Report{
		Snapshot: entity.AccountSnapshot{Handle: "JaneDoe", DisplayName: "Jane"},
		Result: entity.ScoreResult{
			Handle:         "JaneDoe",
			BotProbability: 12.5,
			Label:          entity.LabelVeryLikelyReal,
		},
	}

	stored, err := archive.Store(ctx, report)
	require.NoError(t, err)
	assert.Contains(t, stored.Key, "reports/janedoe/2026/02/03/")
	assert.Equal(t, "http://localhost:9000/reports/"+stored.Key, stored.URL)
	assert.Equal(t, "application/json", objects.types[stored.Key])
	assert.Equal(t, int64(len(objects.objects[stored.Key])), stored.Size)

	loaded, err := archive.Load(ctx, stored.Key)
	require.NoError(t, err)
	assert.Equal(t, "JaneDoe", loaded.Snapshot.Handle)
	assert.Equal(t, 12.5, loaded.Result.BotProbability)

	require.NoError(t, archive.Delete(ctx, stored.Key))
	_, err = archive.Load(ctx, stored.Key)
	assert.Error(t, err)
}

func TestReportArchiveStoreFailure(t *testing.T) {
	objects := newMemoryObjects()
	objects.failPut = true
	archive := NewReportArchiveWithClient(objects, "reports", "http://localhost")

	_, err := archive.Store(context.Background(), entity.Report{})
	assert.Error(t, err)
}
