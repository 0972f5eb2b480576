package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"rental/config"
	"rental/infras/otel"
	"rental/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
)

// S3 stores user supplied images (listing covers, handover photos) and
// returns their public URL.
type S3 interface {
	UploadImage(ctx context.Context, directory string, file multipart.File, header *multipart.FileHeader) (url string, err error)
	Delete(ctx context.Context, url string) error
}

type s3Impl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

func (svc *s3Impl) UploadImage(ctx context.Context, directory string, file multipart.File, header *multipart.FileHeader) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	buf := bytes.NewBuffer(nil)

	if _, err = buf.ReadFrom(file); err != nil {
		return constant.Empty, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := header.Header.Get(constant.RequestHeaderContentType)

	return svc.upload(ctx, path.Join(directory, ObjectName(header.Filename)), contentType, buf.Bytes())
}

func (svc *s3Impl) Delete(ctx context.Context, url string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.config.External.S3.BucketName

	objectKey := ObjectKeyFromURL(url, svc.config.External.S3.PublicDomain, svc.config.External.S3.APIEndpoint, bucket)
	if objectKey == constant.Empty {
		log.Warn().Str("url", url).Msg("url does not belong to the configured bucket, skipping delete")

		return nil
	}

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to delete object")

		return fmt.Errorf("failed to delete object %s: %w", objectKey, err)
	}

	return nil
}

func (svc *s3Impl) upload(ctx context.Context, objectKey, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".upload")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.config.External.S3.BucketName

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    bucket,
	})

	reader := bytes.NewReader(data)

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(objectKey),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(reader.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload object")

		return constant.Empty, fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(svc.config.External.S3.PublicDomain, "/"), objectKey), nil
}

// ObjectName returns a collision free object name keeping the extension of original.
func ObjectName(original string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(original))
}

// ObjectKeyFromURL resolves the object key of a URL served either from the
// public domain or from the bucket path of the API endpoint.
func ObjectKeyFromURL(url, publicDomain, apiEndpoint, bucket string) string {
	prefixes := []string{
		strings.TrimSuffix(publicDomain, "/") + "/",
		fmt.Sprintf("%s/%s/", strings.TrimSuffix(apiEndpoint, "/"), bucket),
	}

	for _, prefix := range prefixes {
		if prefix == "/" {
			continue
		}

		if key, ok := strings.CutPrefix(url, prefix); ok && key != constant.Empty {
			return key
		}
	}

	return constant.Empty
}

func New(config *config.Config, otel otel.Otel) S3 {
	staticProvider := credentials.NewStaticCredentialsProvider(
		config.External.S3.AccessKeyID,
		config.External.S3.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(config.External.S3.APIEndpoint)
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return &s3Impl{
		client: client,
		config: config,
		otel:   otel,
	}
}
