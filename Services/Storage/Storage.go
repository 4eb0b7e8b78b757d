package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

var S3Client *s3.Client
var BucketName string
var Region string
var Endpoint string

// IsEnabled reports whether the storage client has been initialized
func IsEnabled() bool {
	return S3Client != nil
}

func InitStorage() {
	accessKey := os.Getenv("R2_SPACES_ACCESS_KEY")
	secretKey := os.Getenv("R2_SPACES_SECRET_KEY")
	BucketName = os.Getenv("R2_SPACES_BUCKET")
	Region = os.Getenv("R2_SPACES_REGION")
	Endpoint = os.Getenv("R2_SPACES_ENDPOINT")

	if accessKey == "" || secretKey == "" || BucketName == "" || Region == "" || Endpoint == "" {
		zap.S().Warn("Cloudflare R2 not configured, media storage disabled")
		return
	}

	// Normalize endpoint - remove trailing slash and ensure proper format
	endpoint := Endpoint
	if len(endpoint) > 0 && endpoint[len(endpoint)-1] == '/' {
		endpoint = endpoint[:len(endpoint)-1]
	}

	// Create AWS config with custom endpoint for Cloudflare R2
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to load AWS config: %v", err))
	}

	// Create S3 client with custom endpoint for Cloudflare R2
	S3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	Endpoint = endpoint

	zap.S().Infof("Cloudflare R2 initialized! Endpoint: %s, Region: %s, Bucket: %s", Endpoint, Region, BucketName)
}

// GeneratePresignedUploadURL generates a presigned URL for uploading a file to Cloudflare R2
// Returns the presigned URL and any error that occurred
func GeneratePresignedUploadURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	if S3Client == nil {
		return "", fmt.Errorf("storage client not initialized. Call InitStorage() first")
	}

	presignClient := s3.NewPresignClient(S3Client)

	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(BucketName),
		Key:    aws.String(objectKey),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiration
	})

	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// GeneratePresignedGetURL generates a presigned URL for downloading a file from Cloudflare R2
// Returns the presigned URL and any error that occurred
func GeneratePresignedGetURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	if S3Client == nil {
		return "", fmt.Errorf("storage client not initialized. Call InitStorage() first")
	}

	presignClient := s3.NewPresignClient(S3Client)

	request, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(BucketName),
		Key:    aws.String(objectKey),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiration
	})

	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// IsFileExists checks whether an object exists in the bucket. A missing
// object is not an error; only transport failures are.
func IsFileExists(ctx context.Context, objectKey string) (bool, error) {
	if S3Client == nil {
		return false, fmt.Errorf("storage client not initialized. Call InitStorage() first")
	}

	_, err := S3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if file exists: %w", err)
	}

	return true, nil
}

// DeleteFile deletes a file from Cloudflare R2 storage
// Returns an error if the deletion fails
func DeleteFile(ctx context.Context, objectKey string) error {
	if S3Client == nil {
		return fmt.Errorf("storage client not initialized. Call InitStorage() first")
	}

	if objectKey == "" {
		return fmt.Errorf("object key cannot be empty")
	}

	result, err := S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file %s from bucket %s: %w", objectKey, BucketName, err)
	}

	// result.DeleteMarker indicates a delete marker on a versioned bucket
	if result.DeleteMarker != nil {
		zap.S().Debugf("DeleteFile: delete marker created for %s", objectKey)
	}

	return nil
}
