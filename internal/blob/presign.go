// Package blob turns download URLs that point into S3-compatible storage
// (s3://bucket/key) into short-lived presigned HTTPS links. Any other URL is
// returned unchanged.
package blob

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/qfvjug/internal/config"
)

const scheme = "s3"

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Options selects the storage endpoint and credentials.
type Options struct {
	Region        string
	AccessKey     string
	SecretKey     string
	BaseEndpoint  string
	DefaultBucket string
	Validity      time.Duration
	// HTTPClient performs uploads; nil means http.DefaultClient.
	HTTPClient *http.Client
}

// OptionsFromConfig copies the S3 settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Region:        cfg.S3Region,
		AccessKey:     cfg.S3RootUser,
		SecretKey:     cfg.S3RootPassword,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		DefaultBucket: cfg.S3Bucket,
		Validity:      cfg.PresignValidity,
	}
}

type Presigner struct {
	opts Options

	mu     sync.Mutex
	client *s3.PresignClient
}

func NewPresigner(opts Options) *Presigner {
	if opts.Validity <= 0 {
		opts.Validity = 15 * time.Minute
	}
	return &Presigner{opts: opts}
}

func (p *Presigner) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(p.opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.opts.AccessKey,
			p.opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if p.opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(p.opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	p.client = newS3PresignClient(client)
	return p.client, nil
}

// Resolve returns a presigned GET URL for s3://bucket/key and rawURL itself
// for anything else. "s3:///key" uses the default bucket.
func (p *Presigner) Resolve(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != scheme {
		return rawURL, nil
	}

	bucket := u.Host
	if bucket == "" {
		bucket = p.opts.DefaultBucket
	}
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", fmt.Errorf("incomplete storage url %q", rawURL)
	}

	pc, err := p.presignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.opts.Validity))
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}
