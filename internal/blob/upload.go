package blob

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/qfvjug/internal/filex"
	"github.com/dmitrijs2005/qfvjug/internal/netx"
	"github.com/google/uuid"
)

// StorageKey places an uploaded file under downloads/<date>/ with a random
// prefix so equal names never collide.
func StorageKey(now time.Time, name string) string {
	base := strings.ReplaceAll(filepath.Base(name), " ", "_")
	return fmt.Sprintf("downloads/%d/%02d/%02d/%s-%s", now.Year(), now.Month(), now.Day(), uuid.NewString(), base)
}

// PresignPut returns a URL that accepts one PUT of key into bucket.
func (p *Presigner) PresignPut(ctx context.Context, bucket, key string) (string, error) {
	pc, err := p.presignClient(ctx)
	if err != nil {
		return "", err
	}
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.opts.Validity))
	if err != nil {
		return "", fmt.Errorf("presign upload %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

// Upload copies the local file at path into the default bucket and returns
// its s3:// URL together with the file size.
func (p *Presigner) Upload(ctx context.Context, path string) (string, int64, error) {
	if p.opts.DefaultBucket == "" {
		return "", 0, fmt.Errorf("no storage bucket configured")
	}

	f, size, err := filex.OpenSized(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	key := StorageKey(time.Now().UTC(), path)
	url, err := p.PresignPut(ctx, p.opts.DefaultBucket, key)
	if err != nil {
		return "", 0, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if err := netx.PutPresigned(ctx, p.opts.HTTPClient, url, f, size, contentType); err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%s://%s/%s", scheme, p.opts.DefaultBucket, key), size, nil
}
