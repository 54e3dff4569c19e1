//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/LeeDigitalWorks/zapstore/pkg/types"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MinIO image and root credentials used by the shared test container
const (
	MinIOImage    = "minio/minio:latest"
	MinIOUser     = "zapstore"
	MinIOPassword = "zapstore-secret"
)

var (
	minioOnce      sync.Once
	minioEndpoint  string
	minioContainer testcontainers.Container
	minioErr       error
)

// S3Endpoint returns the endpoint of the S3 service under test. ZAPSTORE_S3_ENDPOINT
// (with ZAPSTORE_S3_ACCESS_KEY / ZAPSTORE_S3_SECRET_KEY) selects an external
// service; otherwise a MinIO container is started once and shared.
func S3Endpoint(t *testing.T) string {
	t.Helper()

	if ep := os.Getenv("ZAPSTORE_S3_ENDPOINT"); ep != "" {
		return ep
	}
	if os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		t.Skip("SKIP_DOCKER_TESTS is set")
	}

	minioOnce.Do(func() {
		minioEndpoint, minioErr = startMinIO(context.Background())
	})
	if minioErr != nil {
		t.Fatalf("start minio container: %v", minioErr)
	}
	return minioEndpoint
}

// BackendConfig returns an S3 backend config with credentials.
func BackendConfig(t *testing.T) types.BackendConfig {
	return types.BackendConfig{
		Type:      types.StorageTypeS3,
		Endpoint:  S3Endpoint(t),
		AccessKey: GetEnv("ZAPSTORE_S3_ACCESS_KEY", MinIOUser),
		SecretKey: GetEnv("ZAPSTORE_S3_SECRET_KEY", MinIOPassword),
		PathStyle: true,
	}
}

// AnonymousBackendConfig returns an S3 backend config without credentials.
func AnonymousBackendConfig(t *testing.T) types.BackendConfig {
	cfg := BackendConfig(t)
	cfg.AccessKey = ""
	cfg.SecretKey = ""
	return cfg
}

func startMinIO(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        MinIOImage,
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     MinIOUser,
			"MINIO_ROOT_PASSWORD": MinIOPassword,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start minio container: %w", err)
	}
	minioContainer = container

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve minio host: %w", err)
	}
	port, err := container.MappedPort(ctx, "9000/tcp")
	if err != nil {
		return "", fmt.Errorf("resolve minio port: %w", err)
	}

	return fmt.Sprintf("http://%s:%s", host, port.Port()), nil
}

// TerminateMinIO stops the shared container, if one was started.
func TerminateMinIO() {
	if minioContainer != nil {
		_ = testcontainers.TerminateContainer(minioContainer)
	}
}
