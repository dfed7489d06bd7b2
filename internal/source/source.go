// Package source loads statement bytes from a local path or a gs:// URI.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/insightdelivered/dirham-statement-importer/internal/engine"
)

const gcsScheme = "gs://"

// Read returns the content of uri, refusing anything above maxBytes.
func Read(ctx context.Context, uri string, maxBytes int64) ([]byte, error) {
	if strings.HasPrefix(uri, gcsScheme) {
		bucket, object, err := ParseGCSURI(uri)
		if err != nil {
			return nil, err
		}
		return readGCS(ctx, bucket, object, maxBytes)
	}
	return readFile(uri, maxBytes)
}

// ParseGCSURI splits gs://bucket/path/to/object.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, gcsScheme) {
		return "", "", fmt.Errorf("invalid GCS URI %q: missing %s prefix", uri, gcsScheme)
	}
	rest := strings.TrimPrefix(uri, gcsScheme)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI %q: want gs://bucket/object", uri)
	}
	return parts[0], parts[1], nil
}

func readFile(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input file %s: %w", path, err)
	}
	if info.Size() > maxBytes {
		return nil, tooLarge(path, info.Size(), maxBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readLimited(path, f, maxBytes)
}

func readGCS(ctx context.Context, bucket, object string, maxBytes int64) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	obj := client.Bucket(bucket).Object(object)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("stat gs://%s/%s: %w", bucket, object, err)
	}
	name := "gs://" + bucket + "/" + object
	if attrs.Size > maxBytes {
		return nil, tooLarge(name, attrs.Size, maxBytes)
	}

	r, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()
	return readLimited(name, r, maxBytes)
}

// readLimited reads at most maxBytes+1 so that a source growing after the
// size check is still rejected.
func readLimited(name string, r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, tooLarge(name, int64(len(data)), maxBytes)
	}
	return data, nil
}

func tooLarge(name string, size, maxBytes int64) error {
	return fmt.Errorf("%w: %s is %d bytes, limit %d", engine.ErrInputTooLarge, name, size, maxBytes)
}
