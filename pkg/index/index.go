// Package index keeps decoded torrents in memory, keyed by info hash, and
// serves them over HTTP.
package index

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"dottorrent/pkg/sha1hash"
	"dottorrent/pkg/torrent"
)

// DefaultMaxBodyBytes caps uploads when no limit is configured.
const DefaultMaxBodyBytes = 10 * 1024 * 1024

// Entry is one indexed torrent. Entries are read-only once added.
type Entry struct {
	Source   string // file path, or "upload" for torrents posted over HTTP
	InfoHash sha1hash.Hash
	Torrent  *torrent.Torrent
	AddedAt  time.Time
}

// Index is a set of torrents keyed by info hash, safe for concurrent use.
type Index struct {
	mtx          sync.Mutex               // protects entries
	entries      map[sha1hash.Hash]*Entry // info hash -> entry
	maxBodyBytes int64
	now          func() time.Time
}

// New creates an empty index. maxBodyBytes limits HTTP uploads; zero or a
// negative value selects DefaultMaxBodyBytes.
func New(maxBodyBytes int64) *Index {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Index{
		entries:      make(map[sha1hash.Hash]*Entry),
		maxBodyBytes: maxBodyBytes,
		now:          time.Now,
	}
}

// Add decodes the torrent file at path and adds it. A torrent already in the
// index under the same info hash is replaced.
func (ix *Index) Add(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &torrent.LoadError{Kind: torrent.KindIO, Path: path, Err: errors.Wrap(err, "read torrent file")}
	}
	t, err := torrent.DecodeBytes(data)
	if err != nil {
		var le *torrent.LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return ix.insert(path, t, data)
}

// AddDir adds every *.torrent file directly inside dir. Files that fail to
// decode are logged and skipped; only a failure to list dir is returned.
func (ix *Index) AddDir(dir string) (int, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to list %s", dir)
	}

	added := 0
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".torrent") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		if _, err := ix.Add(path); err != nil {
			logrus.WithError(err).WithField("path", path).Warn("Skipping torrent")
			continue
		}
		added++
	}

	logrus.WithFields(logrus.Fields{
		"directory": dir,
		"added":     added,
	}).Info("Indexed torrent directory")
	return added, nil
}

// insert hashes the raw document, then stores t under that hash.
func (ix *Index) insert(source string, t *torrent.Torrent, data []byte) (*Entry, error) {
	hash, err := torrent.HashInfo(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: info hash", source)
	}

	entry := &Entry{
		Source:   source,
		InfoHash: hash,
		Torrent:  t,
		AddedAt:  ix.now(),
	}

	ix.mtx.Lock()
	_, replaced := ix.entries[hash]
	ix.entries[hash] = entry
	ix.mtx.Unlock()

	logrus.WithFields(logrus.Fields{
		"info_hash": hash.String(),
		"name":      t.Filename,
		"source":    source,
		"replaced":  replaced,
	}).Info("Indexed torrent")
	return entry, nil
}

// Get looks up a torrent by its hex info hash.
func (ix *Index) Get(infoHash string) (*Entry, bool) {
	hash, ok := parseHash(infoHash)
	if !ok {
		return nil, false
	}
	ix.mtx.Lock()
	defer ix.mtx.Unlock()
	e, ok := ix.entries[hash]
	return e, ok
}

// Remove drops a torrent and reports whether it was present.
func (ix *Index) Remove(infoHash string) bool {
	hash, ok := parseHash(infoHash)
	if !ok {
		return false
	}
	ix.mtx.Lock()
	defer ix.mtx.Unlock()
	if _, ok := ix.entries[hash]; !ok {
		return false
	}
	delete(ix.entries, hash)
	return true
}

// List returns all entries ordered by name, then info hash.
func (ix *Index) List() []*Entry {
	ix.mtx.Lock()
	entries := lo.Values(ix.entries)
	ix.mtx.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Torrent.Filename != b.Torrent.Filename {
			return a.Torrent.Filename < b.Torrent.Filename
		}
		return bytes.Compare(a.InfoHash[:], b.InfoHash[:]) < 0
	})
	return entries
}

// Len is the number of indexed torrents.
func (ix *Index) Len() int {
	ix.mtx.Lock()
	defer ix.mtx.Unlock()
	return len(ix.entries)
}

func parseHash(s string) (sha1hash.Hash, bool) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return sha1hash.Hash{}, false
	}
	h, err := sha1hash.FromBytes(raw)
	return h, err == nil
}
