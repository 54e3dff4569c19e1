// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/LeeDigitalWorks/zapstore/pkg/logger"
	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// DefaultRegion is used when no region is configured
const DefaultRegion = "us-east-1"

func init() {
	Register(types.StorageTypeS3, NewS3)
}

// S3 implements Backend for S3-compatible storage
type S3 struct {
	client *s3.Client
	region string
}

// NormalizeEndpoint turns the accepted endpoint spellings into a base URL.
// Accepted: "https://host[:port][/]", "http://host[:port][/]", "host[:port]",
// bare hostnames and IP addresses. A missing scheme means https.
func NormalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", storeerr.New(storeerr.KindConfiguration, "endpoint", "endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", storeerr.Wrapf(storeerr.KindConfiguration, "endpoint", "invalid end-point url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", storeerr.New(storeerr.KindConfiguration, "endpoint", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Hostname() == "" {
		return "", storeerr.New(storeerr.KindConfiguration, "endpoint", "invalid end-point url: missing host")
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return "", storeerr.New(storeerr.KindConfiguration, "endpoint", fmt.Sprintf("invalid end-point port %q", p))
		}
	}
	if u.Path != "" && u.Path != "/" {
		return "", storeerr.New(storeerr.KindConfiguration, "endpoint", "end-point must not contain a path")
	}
	if u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return "", storeerr.New(storeerr.KindConfiguration, "endpoint", "end-point must be scheme://host[:port]")
	}

	return u.Scheme + "://" + u.Host, nil
}

// credentialsFor returns static credentials, or anonymous ones when no keys are set.
func credentialsFor(accessKey, secretKey string) (aws.CredentialsProvider, error) {
	switch {
	case accessKey == "" && secretKey == "":
		return aws.AnonymousCredentials{}, nil
	case accessKey == "" || secretKey == "":
		return nil, storeerr.New(storeerr.KindConfiguration, "credentials",
			"access key and secret key must be set together")
	default:
		return credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""), nil
	}
}

// NewS3 creates an S3 backend. Requests are attempted once; any failure is
// returned to the caller without retry.
func NewS3(cfg types.BackendConfig) (types.Backend, error) {
	endpoint, err := NormalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	creds, err := credentialsFor(cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(creds),
		config.WithRetryMaxAttempts(1),
	)
	if err != nil {
		return nil, storeerr.Wrapf(storeerr.KindConfiguration, "new_s3", "load aws config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.PathStyle
	})

	logger.Debug().
		Str("endpoint", endpoint).
		Str("region", region).
		Bool("anonymous", cfg.AccessKey == "").
		Msg("Created S3 client")

	return &S3{client: client, region: region}, nil
}

func (s *S3) Type() types.StorageType {
	return types.StorageTypeS3
}

func (s *S3) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, classify("bucket_exists", err)
}

func (s *S3) CreateBucket(ctx context.Context, bucket string) error {
	in := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}
	if s.region != DefaultRegion {
		in.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(s.region),
		}
	}

	_, err := s.client.CreateBucket(ctx, in)
	if err != nil {
		// A concurrent creator won the race; the bucket is ours either way.
		var owned *s3types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return classify("create_bucket", err)
	}
	return nil
}

func (s *S3) SetBucketPolicy(ctx context.Context, bucket string, policy types.BucketPolicy) error {
	switch policy {
	case types.PolicyPublicRead:
		doc, err := PublicReadPolicy(bucket)
		if err != nil {
			return storeerr.Wrap(storeerr.KindBackendRejected, "set_bucket_policy", err)
		}
		_, err = s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(bucket),
			Policy: aws.String(doc),
		})
		return classify("set_bucket_policy", err)
	case types.PolicyPrivate:
		_, err := s.client.DeleteBucketPolicy(ctx, &s3.DeleteBucketPolicyInput{
			Bucket: aws.String(bucket),
		})
		if err != nil && apiCode(err) == "NoSuchBucketPolicy" {
			return nil
		}
		return classify("set_bucket_policy", err)
	default:
		return storeerr.New(storeerr.KindBackendRejected, "set_bucket_policy", fmt.Sprintf("unknown policy %q", policy))
	}
}

// ObjectExists lists at most one key under the exact key as prefix. The key
// itself sorts before every longer key sharing it as a prefix, so the first
// listed entry decides.
func (s *S3) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(key),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, classify("object_exists", err)
	}
	return len(out.Contents) > 0 && aws.ToString(out.Contents[0].Key) == key, nil
}

func (s *S3) PutObject(ctx context.Context, bucket, key string, data io.Reader, size int64, metadata map[string]string) error {
	in := &s3.PutObjectInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		Body:     data,
		Metadata: copyMetadata(metadata),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	_, err := s.client.PutObject(ctx, in)
	return classify("put_object", err)
}

func (s *S3) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, *types.ObjectInfo, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, classify("get_object", err)
	}
	return out.Body, &types.ObjectInfo{
		Bucket:   bucket,
		Key:      key,
		Size:     aws.ToInt64(out.ContentLength),
		Metadata: out.Metadata,
	}, nil
}

func (s *S3) Close() error {
	return nil
}

// ============================================================================
// Error classification
// ============================================================================

func apiCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func httpStatus(err error) int {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return 0
}

func isNotFound(err error) bool {
	var nf *s3types.NotFound
	var nsb *s3types.NoSuchBucket
	if errors.As(err, &nf) || errors.As(err, &nsb) {
		return true
	}
	switch apiCode(err) {
	case "NotFound", "NoSuchBucket":
		return true
	}
	return httpStatus(err) == 404
}

var rejectedCodes = map[string]struct{}{
	"AccessDenied":          {},
	"AllAccessDisabled":     {},
	"BucketAlreadyExists":   {},
	"InvalidAccessKeyId":    {},
	"InvalidArgument":       {},
	"InvalidBucketName":     {},
	"KeyTooLongError":       {},
	"MalformedPolicy":       {},
	"SignatureDoesNotMatch": {},
	"InvalidRequest":        {},
	"EntityTooLarge":        {},
}

// classify maps an SDK error onto a storeerr kind:
// missing keys/buckets -> ObjectNotFound, client faults -> BackendRejected,
// everything else (5xx, transport, timeouts) -> BackendUnavailable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	code := apiCode(err)
	switch code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return storeerr.Wrap(storeerr.KindObjectNotFound, op, err)
	}
	if _, ok := rejectedCodes[code]; ok {
		return storeerr.Wrap(storeerr.KindBackendRejected, op, err)
	}

	status := httpStatus(err)
	switch {
	case status == 408 || status == 429:
		return storeerr.Wrap(storeerr.KindBackendUnavailable, op, err)
	case status == 404:
		return storeerr.Wrap(storeerr.KindObjectNotFound, op, err)
	case status >= 400 && status < 500:
		return storeerr.Wrap(storeerr.KindBackendRejected, op, err)
	}
	return storeerr.Wrap(storeerr.KindBackendUnavailable, op, err)
}
