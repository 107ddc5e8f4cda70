package publish

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/pkg/page"
	"github.com/lessonkit/inversetrig/pkg/render"
)

// Artifact is one file of a static snapshot.
type Artifact struct {
	Name        string
	ContentType string
	Body        []byte
}

// Snapshot renders p as a static site: the page without the live client,
// its stylesheet and a Markdown export.
func Snapshot(p *page.Page, stylesheet []byte) ([]Artifact, error) {
	var html bytes.Buffer
	r := render.NewRenderer(render.RendererConfig{})
	err := r.RenderPage(&html, render.PageData{
		Body:        p.Render(),
		Title:       p.Title(),
		Description: p.Description(),
		StyleSheets: []string{"lesson.css"},
	})
	if err != nil {
		return nil, err
	}

	return []Artifact{
		{Name: "index.html", ContentType: "text/html; charset=utf-8", Body: html.Bytes()},
		{Name: "lesson.css", ContentType: "text/css; charset=utf-8", Body: stylesheet},
		{Name: "lesson.md", ContentType: "text/markdown; charset=utf-8", Body: []byte(p.Markdown())},
	}, nil
}

// ObjectPutter is the part of the S3 client the publisher uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads snapshots to an S3 bucket.
//
// Example usage:
//
//	client := publish.NewS3Client(publish.S3Options{Region: "eu-west-1"})
//	pub := publish.NewPublisher(client, "my-bucket", publish.WithPrefix("lessons/inverse-trig/"))
//	keys, err := pub.Publish(ctx, artifacts)
type Publisher struct {
	client       ObjectPutter
	bucket       string
	prefix       string
	cacheControl string
	now          func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithPrefix sets the key prefix of uploaded objects.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) { p.prefix = prefix }
}

// WithCacheControl sets the Cache-Control header of uploaded objects.
// Default: "public, max-age=300".
func WithCacheControl(v string) Option {
	return func(p *Publisher) { p.cacheControl = v }
}

// NewPublisher creates a publisher for bucket.
func NewPublisher(client ObjectPutter, bucket string, opts ...Option) *Publisher {
	p := &Publisher{
		client:       client,
		bucket:       bucket,
		cacheControl: "public, max-age=300",
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the object key for an artifact name.
func (p *Publisher) Key(name string) string {
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// Publish uploads every artifact and returns the keys written. It stops at
// the first failure.
func (p *Publisher) Publish(ctx context.Context, artifacts []Artifact) ([]string, error) {
	if p.bucket == "" {
		return nil, lerrors.New("L050").WithDetail("no bucket configured")
	}

	published := p.now().UTC().Format(time.RFC3339)
	keys := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		key := p.Key(a.Name)
		_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(p.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(a.Body),
			ContentType:  aws.String(a.ContentType),
			CacheControl: aws.String(p.cacheControl),
			Metadata: map[string]string{
				"published-at": published,
			},
		})
		if err != nil {
			return keys, lerrors.New("L050").WithDetailf("s3://%s/%s", p.bucket, key).Wrap(err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
