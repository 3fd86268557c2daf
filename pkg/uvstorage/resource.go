package uvstorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/function61/gokit/atomicfilewrite"
)

// Resource is the higher-level handle: buckets as objects instead of raw requests.
type Resource struct {
	client s3iface.S3API
	region string
}

func newResource(client s3iface.S3API, region string) *Resource {
	return &Resource{client, region}
}

func (r *Resource) Client() s3iface.S3API {
	return r.client
}

func (r *Resource) Region() string {
	return r.region
}

// Buckets returns names of all buckets visible to the credentials, sorted
func (r *Resource) Buckets(ctx context.Context) ([]string, error) {
	resp, err := r.client.ListBucketsWithContext(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("ListBuckets: %w", err)
	}

	names := []string{}
	for _, bucket := range resp.Buckets {
		names = append(names, aws.StringValue(bucket.Name))
	}

	sort.Strings(names)

	return names, nil
}

// does not check that the bucket exists
func (r *Resource) Bucket(name string) *Bucket {
	return &Bucket{name, r.client}
}

type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type Bucket struct {
	name string
	s3   s3iface.S3API
}

func (b *Bucket) Name() string {
	return b.name
}

func (b *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := b.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	}); err != nil {
		if isNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("HeadObject %s: %w", key, err)
	}

	return true, nil
}

// empty contentType means application/octet-stream
func (b *Bucket) Put(ctx context.Context, key string, content io.ReadSeeker, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := b.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        content,
	}); err != nil {
		return fmt.Errorf("PutObject %s: %w", key, err)
	}

	return nil
}

// caller must close the returned body
func (b *Bucket) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := b.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s/%s: %w", b.name, key, ErrObjectNotFound)
		}

		return nil, fmt.Errorf("GetObject %s: %w", key, err)
	}

	return object.Body, nil
}

func (b *Bucket) Read(ctx context.Context, key string) ([]byte, error) {
	body, err := b.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return io.ReadAll(body)
}

// List returns all objects under prefix, sorted by key. Follows pagination.
func (b *Bucket) List(ctx context.Context, prefix string) ([]StoredObject, error) {
	objects := []StoredObject{}

	if err := b.s3.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.name),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, item := range page.Contents {
			objects = append(objects, StoredObject{
				Key:          aws.StringValue(item.Key),
				Size:         aws.Int64Value(item.Size),
				LastModified: aws.TimeValue(item.LastModified),
			})
		}

		return true
	}); err != nil {
		return nil, fmt.Errorf("ListObjectsV2 %s: %w", prefix, err)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })

	return objects, nil
}

// ListPrefixes lists the "directories" directly under prefix.
// "models/" with keys "models/a/x", "models/b/y" => ["models/a", "models/b"]
func (b *Bucket) ListPrefixes(ctx context.Context, prefix string) ([]string, error) {
	prefixes := []string{}

	if err := b.s3.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.name),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, item := range page.CommonPrefixes {
			prefixes = append(prefixes, strings.TrimRight(aws.StringValue(item.Prefix), "/"))
		}

		return true
	}); err != nil {
		return nil, fmt.Errorf("ListObjectsV2 %s: %w", prefix, err)
	}

	sort.Strings(prefixes)

	return prefixes, nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	if _, err := b.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("DeleteObject %s: %w", key, err)
	}

	return nil
}

// UploadFile uploads a local file, using multipart upload for large files (model artifacts)
func (b *Bucket) UploadFile(ctx context.Context, key string, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := s3manager.NewUploaderWithClient(b.s3).UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
		Body:   file,
	}); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	return nil
}

// DownloadFile downloads to a local file. The file at path is replaced only
// after the whole object was received, so a failed download leaves it intact.
func (b *Bucket) DownloadFile(ctx context.Context, key string, path string) error {
	body, err := b.Get(ctx, key)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := atomicfilewrite.Write(path, func(sink io.Writer) error {
		_, err := io.Copy(sink, body)
		return err
	}); err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}

	return nil
}

func isNotFound(err error) bool {
	var awsErr awserr.Error
	if !errors.As(err, &awsErr) {
		return false
	}

	switch awsErr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	default:
		return false
	}
}
