// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	filePrefix = "snapshot_v"
	fileSuffix = ".gob.gz"
)

// ErrNoSnapshot is returned when no readable snapshot exists.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Metadata contains information about a stored snapshot.
type Metadata struct {
	// Version is the snapshot version (monotonically increasing).
	Version int64 `json:"version"`

	// BuiltAt is when the snapshot was built.
	BuiltAt time.Time `json:"built_at"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	EventCount   int `json:"event_count"`
	ContentCount int `json:"content_count"`
	UserCount    int `json:"user_count"`

	// Checksum is the SHA-256 checksum of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	BuildDurationMS int64 `json:"build_duration_ms"`
}

// storedFile is the on-disk format for snapshot files.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store manages snapshot persistence in a directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// versions is kept sorted ascending.
	versions []int64
}

// NewStore creates a snapshot store at the given directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for snapshot storage
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	s := &Store{baseDir: baseDir}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing snapshots: %w", err)
	}
	return s, nil
}

// scan rebuilds the version list from the directory contents.
func (s *Store) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	s.versions = s.versions[:0]
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if v, ok := parseFilename(entry.Name()); ok {
			s.versions = append(s.versions, v)
		}
	}
	sort.Slice(s.versions, func(i, j int) bool { return s.versions[i] < s.versions[j] })
	return nil
}

// parseFilename extracts the version from a name like "snapshot_v42.gob.gz".
func parseFilename(name string) (int64, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// Save encodes data as the given version. The returned metadata carries the
// computed checksum and size.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, version int64, data interface{}, meta Metadata) (*Metadata, error) {
	if version <= 0 {
		return nil, fmt.Errorf("invalid snapshot version %d", version)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Version = version
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	final := s.path(version)
	tmp, err := os.CreateTemp(s.baseDir, ".snapshot-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create snapshot file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) } //nolint:errcheck // best-effort cleanup

	if err := gob.NewEncoder(tmp).Encode(storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		cleanup()
		return nil, fmt.Errorf("write snapshot file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		cleanup()
		return nil, fmt.Errorf("sync snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return nil, fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		cleanup()
		return nil, fmt.Errorf("install snapshot file: %w", err)
	}

	s.addVersion(version)
	return &meta, nil
}

func (s *Store) addVersion(version int64) {
	i := sort.Search(len(s.versions), func(i int) bool { return s.versions[i] >= version })
	if i < len(s.versions) && s.versions[i] == version {
		return
	}
	s.versions = append(s.versions, 0)
	copy(s.versions[i+1:], s.versions[i:])
	s.versions[i] = version
}

// Load decodes a specific snapshot version into target.
func (s *Store) Load(ctx context.Context, version int64, target interface{}) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(version, target)
}

func (s *Store) load(version int64, target interface{}) (*Metadata, error) {
	sf, err := s.readFile(version)
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &sf.Metadata, nil
}

func (s *Store) readFile(version int64) (*storedFile, error) {
	f, err := os.Open(s.path(version))
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	return &sf, nil
}

// LoadLatest decodes the newest readable snapshot into target. Unreadable
// versions are skipped; ErrNoSnapshot is returned when none can be loaded.
// The errors of skipped versions are joined onto the result.
func (s *Store) LoadLatest(ctx context.Context, target interface{}) (*Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error
	for i := len(s.versions) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		meta, err := s.load(s.versions[i], target)
		if err == nil {
			if len(errs) > 0 {
				return meta, &SkippedError{Errs: errs}
			}
			return meta, nil
		}
		errs = append(errs, fmt.Errorf("version %d: %w", s.versions[i], err))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoSnapshot, errors.Join(errs...))
	}
	return nil, ErrNoSnapshot
}

// SkippedError accompanies a successful LoadLatest when newer, corrupt
// versions had to be skipped. Callers may log it and keep the result.
type SkippedError struct {
	Errs []error
}

func (e *SkippedError) Error() string {
	return fmt.Sprintf("skipped %d unreadable snapshot(s): %v", len(e.Errs), errors.Join(e.Errs...))
}

// LatestVersion returns the newest stored version.
func (s *Store) LatestVersion() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.versions) == 0 {
		return 0, false
	}
	return s.versions[len(s.versions)-1], true
}

// List returns metadata for all readable snapshots, newest first.
func (s *Store) List(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Metadata, 0, len(s.versions))
	for i := len(s.versions) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sf, err := s.readFile(s.versions[i])
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	return out, nil
}

// Delete removes a specific snapshot version.
func (s *Store) Delete(_ context.Context, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(version)); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	s.removeVersion(version)
	return nil
}

func (s *Store) removeVersion(version int64) {
	for i, v := range s.versions {
		if v == version {
			s.versions = append(s.versions[:i], s.versions[i+1:]...)
			return
		}
	}
}

// Prune removes old snapshots, keeping the newest keep versions, and
// returns how many files were removed.
func (s *Store) Prune(_ context.Context, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}
	if len(s.versions) <= keep {
		return 0, nil
	}

	old := append([]int64(nil), s.versions[:len(s.versions)-keep]...)
	removed := 0
	var errs []error
	for _, v := range old {
		if err := os.Remove(s.path(v)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		s.removeVersion(v)
		removed++
	}
	return removed, errors.Join(errs...)
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.baseDir
}

func (s *Store) path(version int64) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s%d%s", filePrefix, version, fileSuffix))
}
