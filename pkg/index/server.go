package index

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/bencode"

	"dottorrent/pkg/torrent"
)

// ContentType is set on every bencoded response.
const ContentType = "application/x-bittorrent"

// uploadSource is the Entry.Source of torrents posted over HTTP.
const uploadSource = "upload"

// Summary is the bencoded form of an Entry sent to HTTP clients.
type Summary struct {
	InfoHash    string     `bencode:"info_hash"`    // hex info hash
	Name        string     `bencode:"name"`         // suggested file or directory name
	Source      string     `bencode:"source"`       // path the torrent was loaded from
	Trackers    [][]string `bencode:"trackers"`     // announce tiers
	PieceLength uint64     `bencode:"piece_length"` // bytes per piece
	Pieces      int64      `bencode:"pieces"`       // number of pieces
	Files       int64      `bencode:"files"`        // number of files
	Length      uint64     `bencode:"length"`       // total payload bytes
	Private     int64      `bencode:"private"`      // 1 when private, otherwise 0
	AddedAt     int64      `bencode:"added_at"`     // unix seconds
}

// NewSummary flattens e for the wire.
func NewSummary(e *Entry) Summary {
	t := e.Torrent
	s := Summary{
		InfoHash:    e.InfoHash.String(),
		Name:        t.Filename,
		Source:      e.Source,
		PieceLength: t.PieceLength,
		Pieces:      int64(len(t.Pieces)),
		Files:       int64(torrent.FileCount(t.Contents)),
		Length:      t.TotalLength(),
		AddedAt:     e.AddedAt.Unix(),
		Trackers: lo.Map(t.Trackers, func(tier []*url.URL, _ int) []string {
			return lo.Map(tier, func(u *url.URL, _ int) string { return u.String() })
		}),
	}
	if t.Private {
		s.Private = 1
	}
	return s
}

// Handler serves the index:
//
//	GET  /torrents         all summaries
//	GET  /torrents/{hash}  one summary
//	POST /torrents         add the .torrent in the request body
func (ix *Index) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /torrents", ix.handleList)
	mux.HandleFunc("GET /torrents/{hash}", ix.handleGet)
	mux.HandleFunc("POST /torrents", ix.handleUpload)
	return mux
}

// Listen serves Handler on addr until ctx is canceled.
func (ix *Index) Listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           ix.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("Serving torrent index")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleList sends every indexed torrent.
func (ix *Index) handleList(w http.ResponseWriter, r *http.Request) {
	summaries := lo.Map(ix.List(), func(e *Entry, _ int) Summary { return NewSummary(e) })
	sendBencoded(w, http.StatusOK, summaries)
}

// handleGet sends a single torrent, or 404 for an unknown hash.
func (ix *Index) handleGet(w http.ResponseWriter, r *http.Request) {
	e, ok := ix.Get(r.PathValue("hash"))
	if !ok {
		http.Error(w, "torrent not found", http.StatusNotFound)
		return
	}
	sendBencoded(w, http.StatusOK, NewSummary(e))
}

// handleUpload decodes the body as a .torrent file and indexes it. Decode
// failures are reported with status 400 and the error text.
func (ix *Index) handleUpload(w http.ResponseWriter, r *http.Request) {
	// The raw bytes are kept for the info hash.
	var raw bytes.Buffer
	body := http.MaxBytesReader(w, r.Body, ix.maxBodyBytes)

	t, err := torrent.DecodeReader(io.TeeReader(body, &raw))
	if err != nil {
		logrus.WithError(err).Debug("Rejected upload")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := ix.insert(uploadSource, t, raw.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sendBencoded(w, http.StatusCreated, NewSummary(e))
}

func sendBencoded(w http.ResponseWriter, status int, v interface{}) {
	data, err := bencode.EncodeBytes(v)
	if err != nil {
		logrus.WithError(err).Error("Error marshalling response")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logrus.WithError(err).Debug("Error writing response")
	}
}
