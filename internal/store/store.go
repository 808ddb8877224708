// Package store persists index snapshots as a single artifact file.
//
// An artifact is laid out as:
//
//	magic   [4]byte  "DSFT"
//	version uint16   big endian
//	sum     [32]byte sha256 of payload
//	payload []byte   zstd(gob(snapshot))
//
// Writes go to a temporary file in the target directory which is synced and
// renamed over the artifact, so readers see either the old or the new file.
package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/gob"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/docsift/internal/codec"
	"github.com/stormlightlabs/docsift/internal/errors"
	"github.com/stormlightlabs/docsift/internal/index"
)

// FormatVersion is the artifact layout version written by Save.
const FormatVersion uint16 = 1

var magic = [4]byte{'D', 'S', 'F', 'T'}

const headerSize = len(magic) + 2 + sha256.Size

type snapshot struct {
	Meta      index.Meta
	Documents []*index.Document
	Postings  map[string][]index.Posting
	TermCount int
}

// Stats summarizes a snapshot and its artifact.
type Stats struct {
	Path          string    `json:"path"`
	DocumentCount int       `json:"documents"`
	TermCount     int       `json:"terms"`
	PostingCount  int       `json:"postings"`
	ArtifactSize  int64     `json:"artifact_size"`
	BuildID       string    `json:"build_id"`
	BuiltAt       time.Time `json:"built_at"`
}

// Save writes idx to path atomically and returns the artifact size.
func Save(path string, idx *index.Index) (int64, error) {
	if idx == nil {
		return 0, errors.New(errors.ErrCodeIndexWrite, "no index to save", nil)
	}

	payload, err := encode(idx)
	if err != nil {
		return 0, errors.New(errors.ErrCodeIndexWrite, "cannot encode index", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.New(errors.ErrCodeIndexWrite, "cannot create index directory", err).WithDetail("dir", dir)
	}

	tmp, err := os.CreateTemp(dir, ".docsift-*.tmp")
	if err != nil {
		return 0, errors.New(errors.ErrCodeIndexWrite, "cannot create temporary artifact", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	sum := sha256.Sum256(payload)
	header := make([]byte, 0, headerSize)
	header = append(header, magic[:]...)
	header = binary.BigEndian.AppendUint16(header, FormatVersion)
	header = append(header, sum[:]...)

	if _, err := tmp.Write(header); err != nil {
		tmp.Close()
		return 0, errors.New(errors.ErrCodeIndexWrite, "cannot write artifact", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return 0, errors.New(errors.ErrCodeIndexWrite, "cannot write artifact", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return 0, errors.New(errors.ErrCodeIndexWrite, "cannot sync artifact", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, errors.New(errors.ErrCodeIndexWrite, "cannot close artifact", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, errors.New(errors.ErrCodeIndexWrite, "cannot replace artifact", err).WithDetail("path", path)
	}

	size := int64(headerSize + len(payload))
	log.Debug("index saved", "path", path, "bytes", size, "documents", idx.Len())
	return size, nil
}

func encode(idx *index.Index) ([]byte, error) {
	postings := make(map[string][]index.Posting, idx.Vocabulary().Len())
	for _, term := range idx.Vocabulary().Terms() {
		postings[term] = idx.Postings(term)
	}
	snap := snapshot{
		Meta:      idx.Meta(),
		Documents: idx.Documents(),
		Postings:  postings,
		TermCount: idx.Vocabulary().Len(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}
	return codec.Compress(buf.Bytes())
}

// Load reads the artifact at path. A missing file yields an IndexNotFound
// error; any damage yields IndexCorrupt. Load never substitutes an empty
// index.
func Load(path string) (*index.Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New(errors.ErrCodeIndexNotFound, "no index at "+path, err).
				WithSuggestion("run 'docsift build' first")
		}
		return nil, corrupt(path, "cannot read artifact", err)
	}

	if len(raw) < headerSize {
		return nil, corrupt(path, "artifact is truncated", nil)
	}
	if !bytes.Equal(raw[:len(magic)], magic[:]) {
		return nil, corrupt(path, "not a docsift artifact", nil)
	}
	if v := binary.BigEndian.Uint16(raw[len(magic):]); v != FormatVersion {
		return nil, corrupt(path, fmt.Sprintf("unsupported artifact version %d", v), nil)
	}
	payload := raw[headerSize:]
	sum := sha256.Sum256(payload)
	if !bytes.Equal(sum[:], raw[len(magic)+2:headerSize]) {
		return nil, corrupt(path, "artifact checksum mismatch", nil)
	}

	data, err := codec.Decompress(payload)
	if err != nil {
		return nil, corrupt(path, "cannot decompress artifact", err)
	}
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, corrupt(path, "cannot decode artifact", err)
	}

	idx, err := index.Restore(snap.Meta, snap.Documents, snap.Postings)
	if err != nil {
		return nil, corrupt(path, "artifact violates index invariants", err)
	}
	if idx.Vocabulary().Len() != snap.TermCount {
		return nil, corrupt(path, fmt.Sprintf("artifact holds %d terms, expected %d", idx.Vocabulary().Len(), snap.TermCount), nil)
	}

	log.Debug("index loaded", "path", path, "documents", idx.Len(), "terms", snap.TermCount)
	return idx, nil
}

func corrupt(path, msg string, cause error) error {
	return errors.New(errors.ErrCodeIndexCorrupt, msg, cause).
		WithDetail("path", path).
		WithSuggestion("rebuild the index with 'docsift build --full'")
}

// Exists reports whether an artifact file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// StatsFor describes idx and the size of the artifact at path. A missing
// artifact reports a size of zero.
func StatsFor(path string, idx *index.Index) Stats {
	s := Stats{Path: path}
	if info, err := os.Stat(path); err == nil {
		s.ArtifactSize = info.Size()
	}
	if idx == nil {
		return s
	}
	meta := idx.Meta()
	s.DocumentCount = idx.Len()
	s.TermCount = idx.Vocabulary().Len()
	s.PostingCount = idx.PostingCount()
	s.BuildID = meta.BuildID
	s.BuiltAt = meta.BuiltAt
	return s
}
