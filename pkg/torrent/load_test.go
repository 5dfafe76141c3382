package torrent

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	jackpal "github.com/jackpal/bencode-go"
	"github.com/zeebo/bencode"
)

// writeTorrentFile bencodes meta into dir/name the way a torrent creator
// would and returns the path.
func writeTorrentFile(t *testing.T, dir, name string, meta interface{}) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create torrent file: %v", err)
	}
	defer f.Close()

	if err := jackpal.Marshal(f, meta); err != nil {
		t.Fatalf("Failed to bencode torrent file: %v", err)
	}
	return path
}

func encode(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := bencode.EncodeBytes(v)
	if err != nil {
		t.Fatalf("EncodeBytes() error = %v", err)
	}
	return data
}

func loadKind(t *testing.T, err error) LoadErrorKind {
	t.Helper()
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("error = %T (%v), want *LoadError", err, err)
	}
	return le.Kind
}

func TestDecodeBytes(t *testing.T) {
	tor, err := DecodeBytes(encode(t, singleFileDoc()))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if tor.Filename != "a.txt" || len(tor.Pieces) != 3 {
		t.Errorf("DecodeBytes() = %+v", tor)
	}
	if len(tor.Trackers) != 1 || tor.Trackers[0][0].String() != "http://tracker.example.com/announce" {
		t.Errorf("Trackers = %v", tor.Trackers)
	}
}

func TestDecodeBytesErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		wantKind LoadErrorKind
		wantCode Code
	}{
		{name: "html page", input: []byte("<html><body>Not found</body></html>"), wantKind: KindInvalidBencode},
		{name: "magnet link", input: []byte("magnet:?xt=urn:btih:1234567890abcdef1234567890abcdef12345678"), wantKind: KindInvalidBencode},
		{name: "truncated", input: []byte("d8:announce22:http://tracker.exa"), wantKind: KindInvalidBencode},
		{name: "empty", input: nil, wantKind: KindInvalidBencode},
		{name: "integer root", input: []byte("i42e"), wantKind: KindSchema, wantCode: NotADict},
		{name: "dict without name", input: []byte("d4:infod6:lengthi1eee"), wantKind: KindSchema, wantCode: NameNotPresent},
		{
			name:     "pieces not a multiple of 20",
			input:    []byte("d4:infod6:lengthi1e4:name1:a12:piece lengthi16384e6:pieces39:" + pieceString(2)[:39] + "ee"),
			wantKind: KindSchema,
			wantCode: InvalidPiecesLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tor, err := DecodeBytes(tt.input)
			if err == nil {
				t.Fatalf("DecodeBytes() = %+v, want error", tor)
			}
			if got := loadKind(t, err); got != tt.wantKind {
				t.Errorf("Kind = %v, want %v (%v)", got, tt.wantKind, err)
			}
			if got := CodeOf(err); got != tt.wantCode {
				t.Errorf("CodeOf() = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTorrentFile(t, dir, "multi.torrent", multiFileDoc(
		fileEntry(524288, "folder1", "file1.txt"),
		fileEntry(262144, "folder2", "file2.txt"),
	))

	tor, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if tor.Filename != "dir" {
		t.Errorf("Filename = %q, want %q", tor.Filename, "dir")
	}
	if FileCount(tor.Contents) != 2 || tor.TotalLength() != 786432 {
		t.Errorf("Contents = %#v", tor.Contents)
	}
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := DecodeFile(filepath.Join(dir, "missing.torrent"))
	if got := loadKind(t, err); got != KindIO {
		t.Errorf("missing file: Kind = %v, want io", got)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: error = %v, want it to wrap fs.ErrNotExist", err)
	}

	garbage := filepath.Join(dir, "garbage.torrent")
	if err := os.WriteFile(garbage, []byte("This is not a torrent file"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = DecodeFile(garbage)
	if got := loadKind(t, err); got != KindInvalidBencode {
		t.Errorf("garbage: Kind = %v, want invalid bencode", got)
	}

	schema := writeTorrentFile(t, dir, "schema.torrent", doc{"info": doc{"name": "x"}})
	_, err = DecodeFile(schema)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("schema: error = %v, want *LoadError", err)
	}
	if le.Kind != KindSchema || le.Path != schema {
		t.Errorf("schema: LoadError = %+v", le)
	}
	if CodeOf(err) != PieceLengthNotPresent {
		t.Errorf("schema: CodeOf() = %v, want PieceLengthNotPresent", CodeOf(err))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeReader(t *testing.T) {
	tor, err := DecodeReader(bytes.NewReader(encode(t, singleFileDoc())))
	if err != nil {
		t.Fatalf("DecodeReader() error = %v", err)
	}
	if tor.Filename != "a.txt" {
		t.Errorf("Filename = %q", tor.Filename)
	}

	_, err = DecodeReader(failingReader{})
	if got := loadKind(t, err); got != KindIO {
		t.Errorf("Kind = %v, want io", got)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want it to wrap io.ErrUnexpectedEOF", err)
	}
}
