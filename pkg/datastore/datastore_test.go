// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package datastore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LeeDigitalWorks/zapstore/pkg/storage/backend"
	"github.com/LeeDigitalWorks/zapstore/pkg/storeerr"
	"github.com/LeeDigitalWorks/zapstore/pkg/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// Test Helpers
// =============================================================================

type testEnv struct {
	client *Client
	mem    *backend.MemoryStorage
	cache  string
	temp   string
}

func newTestEnv(t *testing.T, mode OverwriteMode) *testEnv {
	t.Helper()
	return newTestEnvWithBackend(t, mode, backend.NewMemoryStorage())
}

func newTestEnvWithBackend(t *testing.T, mode OverwriteMode, b types.Backend) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		cache: filepath.Join(root, "cache"),
		temp:  filepath.Join(root, "tmp"),
	}
	env.mem, _ = b.(*backend.MemoryStorage)

	client, err := NewClient(Config{
		Backend:       b,
		CacheDir:      env.cache,
		TempDir:       env.temp,
		OverwriteMode: mode,
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	env.client = client
	return env
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// readTree returns relative path -> content for every regular file under root.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			out[filepath.ToSlash(rel)] = readFile(t, path)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "expected %s to be empty", dir)
}

func coordinate(ns, name, version string, v types.Visibility) types.Coordinate {
	return types.Coordinate{Namespace: ns, Name: name, Version: types.Version(version), Visibility: v}
}

// failingBackend wraps MemoryStorage and injects errors
type failingBackend struct {
	*backend.MemoryStorage
	putErr  error
	bodyErr error
}

func (f *failingBackend) PutObject(ctx context.Context, bucket, key string, data io.Reader, size int64, metadata map[string]string) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemoryStorage.PutObject(ctx, bucket, key, data, size, metadata)
}

func (f *failingBackend) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, *types.ObjectInfo, error) {
	rc, info, err := f.MemoryStorage.GetObject(ctx, bucket, key)
	if err != nil || f.bodyErr == nil {
		return rc, info, err
	}
	rc.Close()
	return io.NopCloser(io.MultiReader(strings.NewReader("partial"), &errReader{f.bodyErr})), info, nil
}

type errReader struct{ err error }

// literalKeyBackend serves a payload for any key without validating it, the
// way S3 treats "." and ".." segments as literal key bytes.
type literalKeyBackend struct {
	*backend.MemoryStorage
	gets int
}

func (l *literalKeyBackend) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, *types.ObjectInfo, error) {
	l.gets++
	return io.NopCloser(strings.NewReader("payload")), &types.ObjectInfo{Key: key, Size: 7}, nil
}

func (e *errReader) Read([]byte) (int, error) { return 0, e.err }

// =============================================================================
// Construction
// =============================================================================

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, storeerr.ErrConfiguration)

	_, err = NewClient(Config{Backend: backend.NewMemoryStorage(), OverwriteMode: OverwriteMode(7)})
	assert.ErrorIs(t, err, storeerr.ErrConfiguration)
}

func TestNewClient_CreatesRoots(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)

	assert.DirExists(t, env.cache)
	assert.DirExists(t, env.temp)
	assert.Equal(t, env.cache, env.client.CacheDir())
	assert.Equal(t, env.temp, env.client.TempDir())
}

func TestNewClient_CacheRootIsFile(t *testing.T) {
	t.Parallel()

	file := writeFile(t, filepath.Join(t.TempDir(), "not-a-dir"), "x")
	_, err := NewClient(Config{Backend: backend.NewMemoryStorage(), CacheDir: filepath.Join(file, "cache"), TempDir: t.TempDir()})
	assert.ErrorIs(t, err, storeerr.ErrIOFailure)
}

func TestNewClient_ReadOnlyRoots(t *testing.T) {
	t.Parallel()

	readOnly := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(readOnly, 0o555))
	t.Cleanup(func() { os.Chmod(readOnly, 0o755) })

	_, err := NewClient(Config{Backend: backend.NewMemoryStorage(), CacheDir: readOnly, TempDir: t.TempDir()})
	assert.ErrorIs(t, err, storeerr.ErrIOFailure)

	_, err = NewClient(Config{Backend: backend.NewMemoryStorage(), CacheDir: t.TempDir(), TempDir: readOnly})
	assert.ErrorIs(t, err, storeerr.ErrIOFailure)
}

func TestOverwriteMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "strict", OverwriteStrict.String())
	assert.Equal(t, "legacy", OverwriteLegacy.String())
	assert.Equal(t, "OverwriteMode(9)", OverwriteMode(9).String())
}

// =============================================================================
// Publish / Fetch: files
// =============================================================================

func TestPublishFetch_Pom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()
	pom := writeFile(t, filepath.Join(t.TempDir(), "pom.xml"), "<project><version>1.0</version></project>")
	coord := coordinate("edu.example", "pom", "1.0", types.Public)

	pub, err := env.client.Publish(ctx, coord, pom, false)
	require.NoError(t, err)
	assert.Equal(t, "readonly.edu.example", pub.Bucket)
	assert.Equal(t, "1.0/pom", pub.Key)
	assert.True(t, pub.BucketCreated)
	assert.False(t, pub.Replaced)

	policy, ok := env.mem.BucketPolicy("readonly.edu.example")
	require.True(t, ok)
	assert.Equal(t, types.PolicyPublicRead, policy)

	got, err := env.client.Fetch(ctx, coord)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.cache, "readonly.edu.example", "1.0", "pom"), got.Path)
	assert.Equal(t, readFile(t, pom), readFile(t, got.Path))
	assert.Equal(t, pub.Digest, got.Digest)
	assert.Equal(t, pub.Digest, got.PublishedDigest)
	assert.Equal(t, pub.Size, got.Size)
}

func TestPublish_StoresDigestMetadata(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()
	src := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), "hello")

	pub, err := env.client.Publish(ctx, coordinate("com.acme", "a", "2.0", types.Private), src, false)
	require.NoError(t, err)
	assert.Equal(t, "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", pub.Digest.String())

	_, info, err := env.mem.GetObject(ctx, pub.Bucket, pub.Key)
	require.NoError(t, err)
	assert.Equal(t, pub.Digest.Encoded(), info.Metadata[DigestMetadataKey])
}

func TestPublishFetch_NestedName(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()
	src := writeFile(t, filepath.Join(t.TempDir(), "api.json"), `{"v":1}`)
	coord := coordinate("org.docs", "reference/api.json", "3.1", types.Private)

	pub, err := env.client.Publish(ctx, coord, src, false)
	require.NoError(t, err)
	assert.Equal(t, "private.org.docs", pub.Bucket)
	assert.Equal(t, "3.1/reference/api.json", pub.Key)

	got, err := env.client.Fetch(ctx, coord)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.cache, "private.org.docs", "3.1", "reference", "api.json"), got.Path)
	assert.Equal(t, `{"v":1}`, readFile(t, got.Path))
}

func TestFetch_RepeatedFetchOverwritesCache(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()
	coord := coordinate("com.acme", "tool", "1.0", types.Private)
	src := writeFile(t, filepath.Join(t.TempDir(), "tool"), "v1")

	_, err := env.client.Publish(ctx, coord, src, false)
	require.NoError(t, err)
	got, err := env.client.Fetch(ctx, coord)
	require.NoError(t, err)

	// Local edits are replaced by the next fetch
	require.NoError(t, os.WriteFile(got.Path, []byte("local edit"), 0o644))
	got, err = env.client.Fetch(ctx, coord)
	require.NoError(t, err)
	assert.Equal(t, "v1", readFile(t, got.Path))
}

func TestFetch_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()

	_, err := env.client.Fetch(ctx, coordinate("edu.example", "never", "1.0", types.Public))
	assert.ErrorIs(t, err, storeerr.ErrObjectNotFound)

	_, err = env.client.FetchDirectory(ctx, coordinate("edu.example", "never", "1.0", types.Public))
	assert.ErrorIs(t, err, storeerr.ErrObjectNotFound)

	_, err = os.Stat(filepath.Join(env.cache, "readonly.edu.example", "1.0", "never"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assertEmptyDir(t, env.temp)
}

func TestPublish_VisibilitySeparation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()
	dir := t.TempDir()

	pubCoord := coordinate("com.acme", "lib", "1.0", types.Public)
	privCoord := coordinate("com.acme", "lib", "1.0", types.Private)

	_, err := env.client.Publish(ctx, pubCoord, writeFile(t, filepath.Join(dir, "public"), "public build"), false)
	require.NoError(t, err)
	_, err = env.client.Publish(ctx, privCoord, writeFile(t, filepath.Join(dir, "private"), "private build"), false)
	require.NoError(t, err)

	pub, err := env.client.Fetch(ctx, pubCoord)
	require.NoError(t, err)
	priv, err := env.client.Fetch(ctx, privCoord)
	require.NoError(t, err)

	assert.NotEqual(t, pub.Path, priv.Path)
	assert.Equal(t, "public build", readFile(t, pub.Path))
	assert.Equal(t, "private build", readFile(t, priv.Path))

	policy, _ := env.mem.BucketPolicy("private.com.acme")
	assert.Equal(t, types.PolicyPrivate, policy)
}

func TestPublish_ExistingBucketKeepsPolicy(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()
	src := writeFile(t, filepath.Join(t.TempDir(), "f"), "x")

	first, err := env.client.Publish(ctx, coordinate("edu.example", "a", "1.0", types.Public), src, false)
	require.NoError(t, err)
	assert.True(t, first.BucketCreated)

	second, err := env.client.Publish(ctx, coordinate("edu.example", "b", "1.0", types.Public), src, false)
	require.NoError(t, err)
	assert.False(t, second.BucketCreated)

	policy, _ := env.mem.BucketPolicy("readonly.edu.example")
	assert.Equal(t, types.PolicyPublicRead, policy)
}

// =============================================================================
// Overwrite semantics
// =============================================================================

func TestPublish_StrictRejectsExisting(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()
	dir := t.TempDir()
	coord := coordinate("edu.example", "pom", "1.0", types.Public)

	_, err := env.client.Publish(ctx, coord, writeFile(t, filepath.Join(dir, "v1"), "first"), false)
	require.NoError(t, err)

	_, err = env.client.Publish(ctx, coord, writeFile(t, filepath.Join(dir, "v2"), "second"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeerr.ErrAlreadyExists)

	got, err := env.client.Fetch(ctx, coord)
	require.NoError(t, err)
	assert.Equal(t, "first", readFile(t, got.Path))

	// Explicit overwrite replaces the object
	res, err := env.client.Publish(ctx, coord, filepath.Join(dir, "v2"), true)
	require.NoError(t, err)
	assert.True(t, res.Replaced)

	got, err = env.client.Fetch(ctx, coord)
	require.NoError(t, err)
	assert.Equal(t, "second", readFile(t, got.Path))
}

func TestPublish_LegacyUploadsOverExisting(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteLegacy)
	ctx := context.Background()
	dir := t.TempDir()
	coord := coordinate("edu.example", "pom", "1.0", types.Public)

	_, err := env.client.Publish(ctx, coord, writeFile(t, filepath.Join(dir, "v1"), "first"), false)
	require.NoError(t, err)

	res, err := env.client.Publish(ctx, coord, writeFile(t, filepath.Join(dir, "v2"), "second"), false)
	require.NoError(t, err)
	assert.True(t, res.Replaced)

	got, err := env.client.Fetch(ctx, coord)
	require.NoError(t, err)
	assert.Equal(t, "second", readFile(t, got.Path))
}

func TestPublishDirectory_StrictRejectsExisting(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "index.html"), "<html/>")
	coord := coordinate("edu.example", "site", "1.0", types.Public)

	_, err := env.client.PublishDirectory(ctx, coord, src, false)
	require.NoError(t, err)

	_, err = env.client.PublishDirectory(ctx, coord, src, false)
	assert.ErrorIs(t, err, storeerr.ErrAlreadyExists)
	assertEmptyDir(t, env.temp)
}

// =============================================================================
// Publish / Fetch: directories
// =============================================================================

func TestPublishFetchDirectory_RoundTrip(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "index.html"), "<html/>")
	writeFile(t, filepath.Join(src, "css", "site.css"), "body{}")
	writeFile(t, filepath.Join(src, "js", "vendor", "lib.js"), "var x = 1;")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty"), 0o755))

	coord := coordinate("edu.example", "site", "2.0", types.Public)
	pub, err := env.client.PublishDirectory(ctx, coord, src, false)
	require.NoError(t, err)
	assert.Equal(t, "2.0/site.zip", pub.Key)
	assertEmptyDir(t, env.temp)

	got, err := env.client.FetchDirectory(ctx, coord)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.cache, "readonly.edu.example", "2.0", "site"), got.Path)
	assert.Equal(t, pub.Digest, got.Digest)

	if diff := cmp.Diff(readTree(t, src), readTree(t, got.Path)); diff != "" {
		t.Errorf("unpacked tree mismatch (-want +got):\n%s", diff)
	}
	assert.DirExists(t, filepath.Join(got.Path, "empty"))

	// The downloaded archive does not outlive the fetch
	assertEmptyDir(t, env.temp)
}

func TestFetchDirectory_ReplacesPreviousTree(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()
	coord := coordinate("edu.example", "site", "1.0", types.Public)

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "keep.txt"), "keep")
	_, err := env.client.PublishDirectory(ctx, coord, src, false)
	require.NoError(t, err)

	got, err := env.client.FetchDirectory(ctx, coord)
	require.NoError(t, err)
	writeFile(t, filepath.Join(got.Path, "stray.txt"), "not in archive")

	got, err = env.client.FetchDirectory(ctx, coord)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"keep.txt": "keep"}, readTree(t, got.Path))
}

func TestFetchDirectory_CorruptArchive(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	ctx := context.Background()

	// A plain file published under the archive key of "site"
	bogus := writeFile(t, filepath.Join(t.TempDir(), "bogus"), "definitely not a zip")
	_, err := env.client.Publish(ctx, coordinate("edu.example", "site.zip", "1.0", types.Public), bogus, false)
	require.NoError(t, err)

	_, err = env.client.FetchDirectory(ctx, coordinate("edu.example", "site", "1.0", types.Public))
	assert.ErrorIs(t, err, storeerr.ErrCorruptArchive)

	assert.NoDirExists(t, filepath.Join(env.cache, "readonly.edu.example", "1.0", "site"))
	assertEmptyDir(t, env.temp)
}

func TestPublishDirectory_MissingSource(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)

	_, err := env.client.PublishDirectory(context.Background(),
		coordinate("edu.example", "site", "1.0", types.Public), filepath.Join(t.TempDir(), "missing"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeerr.ErrPackagingFailed)
	assert.ErrorIs(t, err, storeerr.ErrIOFailure)

	// Nothing reached the backend
	_, ok := env.mem.BucketPolicy("readonly.edu.example")
	assert.False(t, ok)
}

// =============================================================================
// Failure classification
// =============================================================================

func TestPublish_MissingFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)

	_, err := env.client.Publish(context.Background(),
		coordinate("edu.example", "pom", "1.0", types.Public), filepath.Join(t.TempDir(), "missing.xml"), false)
	assert.ErrorIs(t, err, storeerr.ErrIOFailure)
}

func TestPublish_InvalidCoordinate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	src := writeFile(t, filepath.Join(t.TempDir(), "f"), "x")

	_, err := env.client.Publish(context.Background(), coordinate("", "pom", "1.0", types.Public), src, false)
	assert.ErrorIs(t, err, storeerr.ErrBackendRejected)

	_, err = env.client.Fetch(context.Background(), coordinate("edu.example", "pom", "", types.Public))
	assert.ErrorIs(t, err, storeerr.ErrBackendRejected)
}

func TestFetch_RejectsTraversalNames(t *testing.T) {
	t.Parallel()

	lb := &literalKeyBackend{MemoryStorage: backend.NewMemoryStorage()}
	env := newTestEnvWithBackend(t, OverwriteStrict, lb)
	ctx := context.Background()
	src := writeFile(t, filepath.Join(t.TempDir(), "f"), "x")

	for _, name := range []string{
		"../../private.edu.example/1.0/model",
		"a/..",
		"models/../../1.1/pom",
		"./pom",
	} {
		coord := coordinate("edu.example", name, "1.0", types.Public)

		_, err := env.client.Fetch(ctx, coord)
		assert.ErrorIs(t, err, storeerr.ErrBackendRejected, name)
		_, err = env.client.FetchDirectory(ctx, coord)
		assert.ErrorIs(t, err, storeerr.ErrBackendRejected, name)
		_, err = env.client.Publish(ctx, coord, src, false)
		assert.ErrorIs(t, err, storeerr.ErrBackendRejected, name)
	}

	assert.Zero(t, lb.gets)
	assertEmptyDir(t, env.cache)
	assertEmptyDir(t, env.temp)
}

func TestPublish_InvalidBucketName(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, OverwriteStrict)
	src := writeFile(t, filepath.Join(t.TempDir(), "f"), "x")

	_, err := env.client.Publish(context.Background(), coordinate("Bad_Namespace", "pom", "1.0", types.Public), src, false)
	assert.ErrorIs(t, err, storeerr.ErrPublishFailed)
	assert.ErrorIs(t, err, storeerr.ErrBackendRejected)
}

func TestPublish_BackendFailure(t *testing.T) {
	t.Parallel()

	fb := &failingBackend{
		MemoryStorage: backend.NewMemoryStorage(),
		putErr:        errors.New("connection reset by peer"),
	}
	env := newTestEnvWithBackend(t, OverwriteStrict, fb)

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "a")

	_, err := env.client.PublishDirectory(context.Background(), coordinate("edu.example", "site", "1.0", types.Public), src, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeerr.ErrPublishFailed)
	assert.ErrorIs(t, err, storeerr.ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "connection reset by peer")

	// The temporary archive is removed on failure too
	assertEmptyDir(t, env.temp)
}

func TestFetch_BrokenBody(t *testing.T) {
	t.Parallel()

	fb := &failingBackend{MemoryStorage: backend.NewMemoryStorage()}
	env := newTestEnvWithBackend(t, OverwriteStrict, fb)
	ctx := context.Background()
	coord := coordinate("edu.example", "pom", "1.0", types.Public)

	_, err := env.client.Publish(ctx, coord, writeFile(t, filepath.Join(t.TempDir(), "pom"), "complete content"), false)
	require.NoError(t, err)

	fb.bodyErr = errors.New("unexpected EOF from server")
	_, err = env.client.Fetch(ctx, coord)
	assert.ErrorIs(t, err, storeerr.ErrBackendUnavailable)

	// No partial file is left at the cache path
	_, statErr := os.Stat(filepath.Join(env.cache, "readonly.edu.example", "1.0", "pom"))
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
	assertEmptyDir(t, filepath.Join(env.cache, "readonly.edu.example", "1.0"))
}

// =============================================================================
// Local backend
// =============================================================================

func TestPublishFetch_LocalBackend(t *testing.T) {
	t.Parallel()

	b, err := backend.New(types.BackendConfig{Type: types.StorageTypeLocal, Path: t.TempDir()})
	require.NoError(t, err)
	env := newTestEnvWithBackend(t, OverwriteStrict, b)
	ctx := context.Background()

	coord := coordinate("edu.example", "pom", "1.0", types.Public)
	src := writeFile(t, filepath.Join(t.TempDir(), "pom.xml"), "<project/>")

	pub, err := env.client.Publish(ctx, coord, src, false)
	require.NoError(t, err)

	got, err := env.client.Fetch(ctx, coord)
	require.NoError(t, err)
	assert.Equal(t, "<project/>", readFile(t, got.Path))
	assert.Equal(t, pub.Digest, got.PublishedDigest)

	policy, err := b.(*backend.Local).BucketPolicy("readonly.edu.example")
	require.NoError(t, err)
	assert.Equal(t, types.PolicyPublicRead, policy)
}
