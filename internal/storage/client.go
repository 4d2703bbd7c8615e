package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/arencloud/eksapp/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ListBuckets is a global call; any region signs it, so fall back to the
// SDK's classic default when nothing resolves.
const defaultRegion = "us-east-1"

// listBucketsAPI is the slice of *s3.Client the service depends on.
type listBucketsAPI interface {
	ListBuckets(ctx context.Context, in *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

type Client struct{ api listBucketsAPI }

// New resolves credentials and region through the AWS default chain (env,
// shared config, web identity, IMDS). The optional overrides in cfg point the
// client at an S3-compatible endpoint with static keys.
func New(ctx context.Context, cfg config.S3Config) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = defaultRegion
	}

	endpoint := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return &Client{api: api}, nil
}

// ListBuckets returns bucket names in the order the service reports them.
// Errors are returned as-is so callers see the SDK's message.
func (c *Client) ListBuckets(ctx context.Context) ([]string, error) {
	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		if b.Name == nil {
			continue
		}
		names = append(names, *b.Name)
	}
	return names, nil
}

// normalizeEndpoint turns an endpoint setting into a base URL. A scheme in the
// setting wins over useSSL; a schemeless host:port gets one from useSSL.
func normalizeEndpoint(endpoint string, useSSL bool) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	// url.Parse lowercases the scheme; a bare host:port parses with no Host.
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return u.Scheme + "://" + u.Host
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
