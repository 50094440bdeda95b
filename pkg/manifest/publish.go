package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/gzip"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/approute/pkg/manifest"

// Object metadata keys set by Publish.
const (
	MetadataHash       = "manifest-hash"
	MetadataRouteCount = "route-count"
)

// ErrNoBucket is returned by Publish when the publisher has no bucket.
var ErrNoBucket = errors.New("no bucket configured")

// PutObjectAPI is the subset of *s3.Client used by Publisher.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PublishError reports a failed upload.
type PublishError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Publisher uploads manifests to a bucket.
//
// Example usage:
//
//	client := s3.NewFromConfig(cfg)
//	pub := manifest.NewPublisher(client, "my-bucket", "sites/blog/", manifest.WithGzip(gzip.BestCompression))
//	key, err := pub.Publish(ctx, m)
type Publisher struct {
	client    PutObjectAPI
	bucket    string
	prefix    string
	gzip      bool
	gzipLevel int
	logger    *slog.Logger
	tracer    trace.Tracer
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithGzip compresses the manifest at level (see the gzip package
// constants) and sets Content-Encoding: gzip.
func WithGzip(level int) PublisherOption {
	return func(p *Publisher) {
		p.gzip = true
		p.gzipLevel = level
	}
}

// WithLogger sets the publisher logger.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithTracer sets the tracer used for publish spans.
func WithTracer(tracer trace.Tracer) PublisherOption {
	return func(p *Publisher) {
		p.tracer = tracer
	}
}

// NewPublisher creates a publisher writing under prefix in bucket. A
// non-empty prefix is treated as a directory.
func NewPublisher(client PutObjectAPI, bucket, prefix string, opts ...PublisherOption) *Publisher {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	p := &Publisher{
		client:    client,
		bucket:    bucket,
		prefix:    strings.TrimPrefix(prefix, "/"),
		gzipLevel: gzip.DefaultCompression,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default().With("component", "publisher")
	}
	if p.tracer == nil {
		p.tracer = otel.Tracer(tracerName)
	}
	return p
}

// Key returns the object key manifests are written to.
func (p *Publisher) Key() string {
	return p.prefix + FileName
}

// Publish uploads m and returns the object key.
func (p *Publisher) Publish(ctx context.Context, m *Manifest) (key string, err error) {
	if p.bucket == "" {
		return "", ErrNoBucket
	}
	key = p.Key()

	ctx, span := p.tracer.Start(ctx, "approute.publish", trace.WithAttributes(
		attribute.String("approute.bucket", p.bucket),
		attribute.String("approute.key", key),
		attribute.Int("approute.routes", m.Len()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := p.encode(m)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
		Metadata: map[string]string{
			MetadataHash:       m.HashString(),
			MetadataRouteCount: strconv.Itoa(m.Len()),
		},
	}
	if p.gzip {
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return "", &PublishError{Bucket: p.bucket, Key: key, Err: err}
	}

	p.logger.Info("manifest published",
		"bucket", p.bucket,
		"key", key,
		"routes", m.Len(),
		"bytes", len(body),
		"hash", m.HashString(),
	)
	return key, nil
}

func (p *Publisher) encode(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	if !p.gzip {
		if err := m.Encode(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	zw, err := gzip.NewWriterLevel(&buf, p.gzipLevel)
	if err != nil {
		return nil, err
	}
	if err := m.Encode(zw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
