package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

// S3Config holds S3/MinIO configuration
type S3Config struct {
	Endpoint        string // e.g., "http://localhost:9000" for MinIO
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	PublicURL       string // Public URL for accessing reports (e.g., "http://localhost:9000/reports")
}

// ObjectAPI is the subset of the S3 client used by the archive
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// ReportArchive stores rendered analysis reports in S3-compatible storage
type ReportArchive struct {
	client    ObjectAPI
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewReportArchive creates a new archive backed by an S3 client
func NewReportArchive(cfg S3Config) *ReportArchive {
	// Create S3 client with static credentials and custom endpoint
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		UsePathStyle: true, // Required for MinIO
	})

	return NewReportArchiveWithClient(client, cfg.Bucket, cfg.PublicURL)
}

// NewReportArchiveWithClient creates an archive on top of an existing object client
func NewReportArchiveWithClient(client ObjectAPI, bucket, publicURL string) *ReportArchive {
	return &ReportArchive{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// StoredReport describes an archived report
type StoredReport struct {
	Key        string // Object key in S3
	URL        string // Public URL to access the report
	Size       int64
	UploadedAt time.Time
}

// Store uploads a report as JSON and returns where it was stored
func (a *ReportArchive) Store(ctx context.Context, report entity.Report) (*StoredReport, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}

	now := a.now()
	key := ReportKey(report.Snapshot.Handle, now, uuid.NewString())

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading report to s3: %w", err)
	}

	return &StoredReport{
		Key:        key,
		URL:        fmt.Sprintf("%s/%s", a.publicURL, key),
		Size:       int64(len(body)),
		UploadedAt: now,
	}, nil
}

// Load downloads and decodes a previously stored report
func (a *ReportArchive) Load(ctx context.Context, key string) (*entity.Report, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("downloading report from s3: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading report body: %w", err)
	}

	var report entity.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}

	return &report, nil
}

// Delete removes a report from S3
func (a *ReportArchive) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting report from s3: %w", err)
	}
	return nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9]`)

// ReportKey builds the object key for a report:
// reports/<sanitized-handle>/<yyyy/mm/dd>/<id>.json
func ReportKey(handle string, at time.Time, id string) string {
	safe := unsafeKeyChars.ReplaceAllString(strings.ToLower(handle), "_")
	if safe == "" {
		safe = "_"
	}
	return fmt.Sprintf("reports/%s/%s/%s.json", safe, at.UTC().Format("2006/01/02"), id)
}
