// Package persistence implements the four content-addressed stores under a
// configurable data directory: messages, sessions, blobs, and history.
package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"codelet/internal/objectstore"
)

// BlobThreshold is the content-length cutoff above which a field is
// extracted into the blob store.
const BlobThreshold = 10 * 1024

// BlobRefPrefix is the literal prefix of a blob reference string.
const BlobRefPrefix = "blob:sha256:"

var blobRefPattern = regexp.MustCompile(`^blob:sha256:[0-9a-f]{64}$`)

// MakeBlobReference renders the reference string for a hash.
func MakeBlobReference(hash string) string { return BlobRefPrefix + hash }

// IsBlobReference reports whether s matches the exact blob reference format:
// the literal prefix followed by exactly 64 lowercase hex characters.
func IsBlobReference(s string) bool { return blobRefPattern.MatchString(s) }

// ExtractBlobHash returns the hash portion of a blob reference, or ("",
// false) if s is not a well-formed reference.
func ExtractBlobHash(s string) (string, bool) {
	if !IsBlobReference(s) {
		return "", false
	}
	return s[len(BlobRefPrefix):], true
}

// BlobStore is a content-addressed store sharded by the first two hex chars
// of the SHA-256 hash, backed by the local filesystem by default.
type BlobStore struct {
	dir    string
	remote objectstore.ObjectStore // optional secondary backend (e.g. S3)
}

// NewBlobStore roots a blob store at {dataDir}/blobs.
func NewBlobStore(dataDir string) *BlobStore {
	return &BlobStore{dir: filepath.Join(dataDir, "blobs")}
}

// WithRemote attaches an optional ObjectStore-backed mirror (S3, etc.) that
// receives a copy of every blob written, so a deployment can move the blob
// tier off local disk without changing the content-addressing contract.
func (b *BlobStore) WithRemote(store objectstore.ObjectStore) *BlobStore {
	b.remote = store
	return b
}

func (b *BlobStore) path(hash string) string {
	return filepath.Join(b.dir, hash[:2], hash)
}

// Store writes content if a blob with that hash doesn't already exist
// (automatic deduplication), using tmp+rename for crash safety, and returns
// the hex hash.
func (b *BlobStore) Store(ctx context.Context, content []byte) (string, error) {
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	dest := b.path(hash)
	if _, err := os.Stat(dest); err == nil {
		return hash, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("persistence: mkdir blob shard: %w", err)
	}
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return "", fmt.Errorf("persistence: write blob tmp: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return "", fmt.Errorf("persistence: rename blob: %w", err)
	}

	if b.remote != nil {
		_, _ = b.remote.Put(ctx, remoteKey(hash), bytesReader(content), objectstore.PutOptions{})
	}

	return hash, nil
}

// Get reads a blob by hash, verifying its hash against content and failing
// loudly on corruption.
func (b *BlobStore) Get(ctx context.Context, hash string) ([]byte, error) {
	if len(hash) != 64 {
		return nil, fmt.Errorf("persistence: invalid blob hash %q", hash)
	}
	content, err := os.ReadFile(b.path(hash))
	if err != nil {
		if b.remote != nil {
			return b.getRemote(ctx, hash)
		}
		return nil, fmt.Errorf("persistence: blob %s not found: %w", hash, err)
	}

	sum := sha256.Sum256(content)
	actual := hex.EncodeToString(sum[:])
	if actual != hash {
		return nil, fmt.Errorf("persistence: blob hash mismatch: expected %s, got %s", hash, actual)
	}
	return content, nil
}

func (b *BlobStore) getRemote(ctx context.Context, hash string) ([]byte, error) {
	rc, _, err := b.remote.Get(ctx, remoteKey(hash))
	if err != nil {
		return nil, fmt.Errorf("persistence: blob %s not found remotely: %w", hash, err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(content)
	if hex.EncodeToString(sum[:]) != hash {
		return nil, fmt.Errorf("persistence: blob hash mismatch for remote %s", hash)
	}
	return content, nil
}

// Exists reports whether a blob with the given hash is present locally.
func (b *BlobStore) Exists(hash string) bool {
	_, err := os.Stat(b.path(hash))
	return err == nil
}

func remoteKey(hash string) string { return "blobs/" + hash[:2] + "/" + hash }

func bytesReader(content []byte) io.Reader {
	return &byteSliceReader{data: content}
}

type byteSliceReader struct {
	data []byte
	pos  int
}

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
