// Package render formats decoded torrents for people and scripts.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"dottorrent/pkg/sha1hash"
	"dottorrent/pkg/torrent"
)

// Format selects an output encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, JSON, YAML:
		return f, nil
	}
	return "", errors.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// FileView is one file of a torrent with its full slash-separated path.
type FileView struct {
	Path   string `json:"path" yaml:"path"`
	Length uint64 `json:"length" yaml:"length"`
}

// View is a flat, serializable summary of a torrent.
type View struct {
	Name        string     `json:"name" yaml:"name"`
	InfoHash    string     `json:"info_hash,omitempty" yaml:"info_hash,omitempty"`
	Trackers    [][]string `json:"trackers" yaml:"trackers"`
	Nodes       []string   `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	HTTPSeeds   []string   `json:"httpseeds,omitempty" yaml:"httpseeds,omitempty"`
	URLList     string     `json:"url_list,omitempty" yaml:"url_list,omitempty"`
	Private     bool       `json:"private" yaml:"private"`
	PieceLength uint64     `json:"piece_length" yaml:"piece_length"`
	Pieces      []string   `json:"pieces" yaml:"pieces"`
	MerkleRoot  string     `json:"merkle_root,omitempty" yaml:"merkle_root,omitempty"`
	MultiFile   bool       `json:"multi_file" yaml:"multi_file"`
	TotalLength uint64     `json:"total_length" yaml:"total_length"`
	Files       []FileView `json:"files" yaml:"files"`
}

func urlStrings(urls []*url.URL) []string {
	return lo.Map(urls, func(u *url.URL, _ int) string {
		return u.String()
	})
}

// NewView summarizes t. infoHash may be nil when it is not known.
func NewView(t *torrent.Torrent, infoHash *sha1hash.Hash) View {
	v := View{
		Name:        t.Filename,
		Trackers:    lo.Map(t.Trackers, func(tier []*url.URL, _ int) []string { return urlStrings(tier) }),
		Nodes:       lo.Map(t.Nodes, func(n torrent.DHTNode, _ int) string { return n.String() }),
		HTTPSeeds:   urlStrings(t.HTTPSeeds),
		Private:     t.Private,
		PieceLength: t.PieceLength,
		Pieces:      lo.Map(t.Pieces, func(h sha1hash.Hash, _ int) string { return h.String() }),
		MultiFile:   t.MultiFile(),
		TotalLength: t.TotalLength(),
	}
	if infoHash != nil {
		v.InfoHash = infoHash.String()
	}
	if t.URLList != nil {
		v.URLList = t.URLList.String()
	}
	if t.MerkleRoot != nil {
		v.MerkleRoot = t.MerkleRoot.String()
	}

	_ = torrent.Walk(t.Contents, func(p []string, f torrent.File) error {
		full := strings.Join(append([]string{t.Filename}, p...), "/")
		v.Files = append(v.Files, FileView{Path: full, Length: f.Length})
		return nil
	})
	return v
}

// Write encodes v to w in the given format.
func Write(w io.Writer, format Format, v View) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case Text:
		return writeText(w, v)
	}
	return errors.Errorf("unknown output format %q", format)
}

func writeText(w io.Writer, v View) error {
	var b strings.Builder

	fmt.Fprintf(&b, "trackers: %v\n", v.Trackers)
	fmt.Fprintf(&b, "filename: %s\n", v.Name)
	if v.InfoHash != "" {
		fmt.Fprintf(&b, "info hash: %s\n", v.InfoHash)
	}
	fmt.Fprintf(&b, "private: %t\n", v.Private)
	fmt.Fprintf(&b, "piece length: %s (%d)\n", humanize.IBytes(v.PieceLength), v.PieceLength)
	fmt.Fprintf(&b, "pieces: %d\n", len(v.Pieces))
	if v.MerkleRoot != "" {
		fmt.Fprintf(&b, "merkle root: %s\n", v.MerkleRoot)
	}
	if len(v.Nodes) > 0 {
		fmt.Fprintf(&b, "nodes: %s\n", strings.Join(v.Nodes, " "))
	}
	if len(v.HTTPSeeds) > 0 {
		fmt.Fprintf(&b, "httpseeds: %s\n", strings.Join(v.HTTPSeeds, " "))
	}
	if v.URLList != "" {
		fmt.Fprintf(&b, "url-list: %s\n", v.URLList)
	}
	fmt.Fprintf(&b, "total: %s in %d file(s)\n", humanize.IBytes(v.TotalLength), len(v.Files))
	for _, f := range v.Files {
		fmt.Fprintf(&b, "  %s  %s\n", f.Path, humanize.IBytes(f.Length))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
