package objectvfs

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/litebase/sqliteplugin/pkg/config"
)

// ObjectClient is the part of *s3.Client the backend uses.
type ObjectClient interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewClient builds an S3 client from the storage settings of c. With
// FakeObjectStorage set, requests use path-style addressing against
// StorageEndpoint and skip certificate checks.
func NewClient(ctx context.Context, c *config.Config) (*s3.Client, error) {
	sdkConfig, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion(c.StorageRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				c.StorageAccessKeyId,
				c.StorageSecretAccessKey,
				"",
			),
		),
		func(o *awsConfig.LoadOptions) error {
			if !c.FakeObjectStorage {
				return nil
			}

			endpoint, err := url.Parse(c.StorageEndpoint)

			if err != nil {
				return err
			}

			o.HTTPClient = &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
					// Override the dial address because the SDK uses the bucket name as a subdomain.
					DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
						dialer := net.Dialer{
							Timeout:   30 * time.Second,
							KeepAlive: 30 * time.Second,
						}

						return dialer.DialContext(ctx, network, endpoint.Host)
					},
				},
			}

			return nil
		},
	)

	if err != nil {
		return nil, fmt.Errorf("load object storage configuration: %w", err)
	}

	return s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if c.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(c.StorageEndpoint)
		}

		if c.FakeObjectStorage {
			o.UsePathStyle = true
		}
	}), nil
}

// isNotFound reports whether err is a missing object. HeadObject has no
// body, so its 404 only carries the generic NotFound code.
func isNotFound(err error) bool {
	var noKey *s3types.NoSuchKey
	var notFound *s3types.NotFound

	if errors.As(err, &notFound) || errors.As(err, &noKey) {
		return true
	}

	var apiErr smithy.APIError

	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	return false
}
