package manifest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/gzip"
)

// fakeS3 records PutObject calls.
type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{ETag: aws.String(`"etag"`)}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "routes.json"},
		{"sites/blog", "sites/blog/routes.json"},
		{"sites/blog/", "sites/blog/routes.json"},
		{"/sites/", "sites/routes.json"},
	}

	for _, tt := range tests {
		if got := NewPublisher(&fakeS3{}, "b", tt.prefix).Key(); got != tt.want {
			t.Errorf("Key() with prefix %q = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestPublish(t *testing.T) {
	client := &fakeS3{}
	m := Build(testRoutes(t), RelativeTo("/srv/app"))

	key, err := NewPublisher(client, "routes-bucket", "prod", WithLogger(quietLogger())).Publish(context.Background(), m)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if key != "prod/routes.json" {
		t.Errorf("key = %q", key)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(client.inputs))
	}

	in := client.inputs[0]
	if aws.ToString(in.Bucket) != "routes-bucket" || aws.ToString(in.Key) != key {
		t.Errorf("PutObject target = %s/%s", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) != "application/json" {
		t.Errorf("ContentType = %q", aws.ToString(in.ContentType))
	}
	if in.ContentEncoding != nil {
		t.Errorf("ContentEncoding = %q, want unset", aws.ToString(in.ContentEncoding))
	}
	if in.Metadata[MetadataHash] != m.HashString() {
		t.Errorf("hash metadata = %q, want %q", in.Metadata[MetadataHash], m.HashString())
	}
	if in.Metadata[MetadataRouteCount] != "5" {
		t.Errorf("route count metadata = %q, want 5", in.Metadata[MetadataRouteCount])
	}

	got, err := Decode(bytes.NewReader(client.bodies[0]))
	if err != nil {
		t.Fatalf("Decode(body) error: %v", err)
	}
	if got.Hash() != m.Hash() {
		t.Error("published manifest differs from the original")
	}
}

func TestPublishGzip(t *testing.T) {
	client := &fakeS3{}
	m := Build(testRoutes(t))

	_, err := NewPublisher(client, "b", "", WithGzip(gzip.BestCompression), WithLogger(quietLogger())).Publish(context.Background(), m)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if got := aws.ToString(client.inputs[0].ContentEncoding); got != "gzip" {
		t.Errorf("ContentEncoding = %q, want gzip", got)
	}

	zr, err := gzip.NewReader(bytes.NewReader(client.bodies[0]))
	if err != nil {
		t.Fatalf("gzip.NewReader error: %v", err)
	}
	defer zr.Close()

	got, err := Decode(zr)
	if err != nil {
		t.Fatalf("Decode(gunzipped body) error: %v", err)
	}
	if got.Len() != m.Len() {
		t.Errorf("Len() = %d, want %d", got.Len(), m.Len())
	}
}

func TestPublishErrors(t *testing.T) {
	m := Build(testRoutes(t))

	_, err := NewPublisher(&fakeS3{}, "", "x", WithLogger(quietLogger())).Publish(context.Background(), m)
	if !errors.Is(err, ErrNoBucket) {
		t.Errorf("Publish() without bucket error = %v, want ErrNoBucket", err)
	}

	cause := errors.New("access denied")
	_, err = NewPublisher(&fakeS3{err: cause}, "b", "x", WithLogger(quietLogger())).Publish(context.Background(), m)

	var publishErr *PublishError
	if !errors.As(err, &publishErr) {
		t.Fatalf("Publish() error = %v, want *PublishError", err)
	}
	if publishErr.Key != "x/routes.json" || !errors.Is(err, cause) {
		t.Errorf("PublishError = %+v", publishErr)
	}
}
