// FeatureLens - Leakage-Safe Feature Engineering for Ratings Prediction
// Copyright 2026 T. Foster (tfoster-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tfoster-dev/featurelens

// Package modelstore persists pipeline artifacts, the fitted model and the
// engineered feature tables, as opaque serialized blobs understood only by
// this runtime.
//
// Artifacts are gob-encoded, gzip-compressed and carried with a sha256
// checksum so a truncated or bit-rotted blob is rejected at load time
// instead of quietly deserializing garbage. Versioned filenames
// ({name}_v{version}.gob.gz) let repeated runs coexist in one directory.
//
// The AggregateIndex is deliberately NOT persistable here: it is
// re-derivable state that must be rebuilt from the training partition each
// run, never treated as ground truth.
package modelstore

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Metadata describes a stored artifact.
type Metadata struct {
	// Name is the artifact name (e.g. "model", "train_features").
	Name string `json:"name"`

	// Version is the artifact version, monotonically increasing per name.
	Version int `json:"version"`

	// RunID identifies the pipeline run that produced the artifact.
	RunID string `json:"run_id"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	// Rows is the row count for table artifacts, zero for models.
	Rows int `json:"rows"`

	// Checksum is the sha256 of the uncompressed gob payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`
}

// storedFile is the on-disk format: metadata plus the compressed payload
// in a single gob envelope.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store manages artifact persistence under one directory.
type Store struct {
	baseDir  string
	versions map[string]int
}

// NewStore creates a store at the given directory, scanning any artifacts
// left by earlier runs so new saves version above them.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	s := &Store{baseDir: baseDir, versions: make(map[string]int)}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing artifacts: %w", err)
	}
	return s, nil
}

func (s *Store) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base, ok := strings.CutSuffix(entry.Name(), ".gob.gz")
		if !ok {
			continue
		}
		name, version := parseArtifactFilename(base)
		if name == "" {
			continue
		}
		if current, known := s.versions[name]; !known || version > current {
			s.versions[name] = version
		}
	}
	return nil
}

// parseArtifactFilename splits "train_features_v3" into ("train_features", 3).
func parseArtifactFilename(base string) (string, int) {
	i := strings.LastIndex(base, "_v")
	if i <= 0 {
		return "", 0
	}
	version, err := strconv.Atoi(base[i+2:])
	if err != nil || version <= 0 {
		return "", 0
	}
	return base[:i], version
}

func (s *Store) artifactPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d.gob.gz", name, version))
}

// Save writes the payload under the given name at the next version and
// returns the final metadata.
func (s *Store) Save(name string, payload any, meta Metadata) (*Metadata, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	raw := buf.Bytes()

	hash := sha256.Sum256(raw)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return nil, fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	version := s.versions[name] + 1
	meta.Name = name
	meta.Version = version
	meta.SavedAt = time.Now()
	meta.SizeBytes = int64(compressed.Len())

	f, err := os.Create(s.artifactPath(name, version))
	if err != nil {
		return nil, fmt.Errorf("create artifact file: %w", err)
	}
	defer f.Close()

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		return nil, fmt.Errorf("write artifact file: %w", err)
	}
	s.versions[name] = version
	return &meta, nil
}

// Load reads an artifact into target. Version 0 selects the latest.
func (s *Store) Load(name string, version int, target any) (*Metadata, error) {
	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("no artifact found for %q", name)
		}
	}

	f, err := os.Open(s.artifactPath(name, version))
	if err != nil {
		return nil, fmt.Errorf("open artifact file: %w", err)
	}
	defer f.Close()

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer gzr.Close()

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("checksum mismatch for %q v%d: expected %s, got %s", name, version, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &sf.Metadata, nil
}

// LatestVersion returns the newest version for an artifact name.
func (s *Store) LatestVersion(name string) (int, bool) {
	v, ok := s.versions[name]
	return v, ok
}
