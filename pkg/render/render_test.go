package render

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"dottorrent/pkg/sha1hash"
	"dottorrent/pkg/torrent"
)

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func sampleTorrent(t *testing.T) *torrent.Torrent {
	piece, _ := sha1hash.FromBytes([]byte("aaaaaaaaaaaaaaaaaaaa"))
	return &torrent.Torrent{
		Trackers:    [][]*url.URL{{mustURL(t, "http://a/"), mustURL(t, "http://b/")}, {mustURL(t, "udp://c:6969")}},
		PieceLength: 16384,
		Pieces:      []sha1hash.Hash{piece},
		Filename:    "album",
		Contents: torrent.Dir{
			"cd1":       torrent.Dir{"01.flac": torrent.File{Length: 2048}},
			"cover.jpg": torrent.File{Length: 1024},
		},
	}
}

func TestNewView(t *testing.T) {
	hash, _ := sha1hash.FromBytes([]byte("bbbbbbbbbbbbbbbbbbbb"))
	v := NewView(sampleTorrent(t), &hash)

	if v.InfoHash != hash.String() {
		t.Errorf("InfoHash = %q", v.InfoHash)
	}
	if want := [][]string{{"http://a/", "http://b/"}, {"udp://c:6969"}}; !reflect.DeepEqual(v.Trackers, want) {
		t.Errorf("Trackers = %v, want %v", v.Trackers, want)
	}
	wantFiles := []FileView{{Path: "album/cd1/01.flac", Length: 2048}, {Path: "album/cover.jpg", Length: 1024}}
	if !reflect.DeepEqual(v.Files, wantFiles) {
		t.Errorf("Files = %v, want %v", v.Files, wantFiles)
	}
	if !v.MultiFile || v.TotalLength != 3072 {
		t.Errorf("MultiFile = %v, TotalLength = %d", v.MultiFile, v.TotalLength)
	}
	if len(v.Pieces) != 1 || v.Pieces[0] != strings.Repeat("61", 20) {
		t.Errorf("Pieces = %v", v.Pieces)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Text, NewView(sampleTorrent(t), nil)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"trackers: [[http://a/ http://b/] [udp://c:6969]]\n",
		"filename: album\n",
		"piece length: 16 KiB (16384)\n",
		"pieces: 1\n",
		"total: 3.0 KiB in 2 file(s)\n",
		"  album/cover.jpg  1.0 KiB\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "info hash:") {
		t.Errorf("text output has an info hash line without a hash:\n%s", out)
	}
}

func TestWriteStructured(t *testing.T) {
	view := NewView(sampleTorrent(t), nil)

	var jsonBuf bytes.Buffer
	if err := Write(&jsonBuf, JSON, view); err != nil {
		t.Fatalf("Write(JSON) error = %v", err)
	}
	var fromJSON View
	if err := json.Unmarshal(jsonBuf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if fromJSON.Name != "album" || len(fromJSON.Files) != 2 {
		t.Errorf("JSON round trip = %+v", fromJSON)
	}

	var yamlBuf bytes.Buffer
	if err := Write(&yamlBuf, YAML, view); err != nil {
		t.Fatalf("Write(YAML) error = %v", err)
	}
	var fromYAML View
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if fromYAML.PieceLength != 16384 || fromYAML.Files[1].Path != "album/cover.jpg" {
		t.Errorf("YAML round trip = %+v", fromYAML)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"text": Text, "JSON": JSON, "yaml": YAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil || !strings.Contains(err.Error(), `"xml"`) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
	if err := Write(io.Discard, Format("xml"), View{}); err == nil {
		t.Errorf("Write(xml) succeeded")
	}
}
