package capture

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/batchdom/internal/errors"
)

// ObjectGetter is the subset of the S3 client used to fetch recordings.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures the S3 client built by NewS3Client.
type S3Config struct {
	Region   string
	Endpoint string // optional; enables path-style addressing
}

// NewS3Client builds an S3 client from cfg. Credentials come from the
// standard AWS_* environment variables; without them requests are
// anonymous.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: envCredentials(),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials() aws.CredentialsProvider {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	creds := aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return creds, nil
	})
}

// Source opens recordings by location.
type Source struct {
	s3 ObjectGetter
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithObjectGetter sets the client used for s3:// locations.
func WithObjectGetter(g ObjectGetter) SourceOption {
	return func(s *Source) {
		s.s3 = g
	}
}

// NewSource creates a Source.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open reads the recording at location, either a file path or
// s3://bucket/key.
func (s *Source) Open(ctx context.Context, location string) (*Recording, error) {
	if rest, ok := strings.CutPrefix(location, "s3://"); ok {
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return nil, errors.New(errors.CodeCaptureSource).WithDetailf("'%s'", location)
		}
		return s.openS3(ctx, bucket, key)
	}
	if strings.Contains(location, "://") {
		return nil, errors.New(errors.CodeCaptureSource).WithDetailf("'%s'", location)
	}
	return ReadFile(location)
}

func (s *Source) openS3(ctx context.Context, bucket, key string) (*Recording, error) {
	if s.s3 == nil {
		return nil, errors.New(errors.CodeCaptureSource).
			WithDetail("no S3 client configured").
			WithSuggestion("Set capture.s3Region in batchdom.json")
	}
	out, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New(errors.CodeCaptureRead).WithDetailf("s3://%s/%s", bucket, key).Wrap(err)
	}
	defer out.Body.Close()
	return Decode(out.Body)
}

// Open reads a recording from a local file. s3:// locations are fetched
// with an S3 client configured from the environment.
func Open(ctx context.Context, location string) (*Recording, error) {
	var opts []SourceOption
	if strings.HasPrefix(location, "s3://") {
		opts = append(opts, WithObjectGetter(NewS3Client(S3Config{Region: os.Getenv("AWS_REGION")})))
	}
	return NewSource(opts...).Open(ctx, location)
}
