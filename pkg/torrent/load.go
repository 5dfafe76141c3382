package torrent

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dottorrent/pkg/bvalue"
)

// LoadErrorKind separates the three ways loading can fail.
type LoadErrorKind int

const (
	// KindIO means the input could not be read.
	KindIO LoadErrorKind = iota + 1
	// KindInvalidBencode means the bytes are not a valid bencode document.
	KindInvalidBencode
	// KindSchema means the document is valid bencode but not valid metainfo.
	// Err is then a *DecodeError.
	KindSchema
)

func (k LoadErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindInvalidBencode:
		return "invalid bencode"
	case KindSchema:
		return "invalid torrent"
	}
	return "unknown"
}

// LoadError is returned by DecodeBytes, DecodeFile and DecodeReader.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause reach the underlying error.
func (e *LoadError) Cause() error {
	return e.Err
}

// DecodeBytes parses data as bencode and decodes the result.
func DecodeBytes(data []byte) (*Torrent, error) {
	v, err := bvalue.Parse(data)
	if err != nil {
		return nil, &LoadError{Kind: KindInvalidBencode, Err: err}
	}
	t, err := Decode(v)
	if err != nil {
		return nil, &LoadError{Kind: KindSchema, Err: err}
	}
	return t, nil
}

// DecodeFile reads the file at path and decodes it.
func DecodeFile(path string) (*Torrent, error) {
	logrus.WithField("path", path).Debug("Loading torrent file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Kind: KindIO, Path: path, Err: errors.Wrap(err, "read torrent file")}
	}

	t, err := DecodeBytes(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		logrus.WithError(err).WithField("path", path).Debug("Rejected torrent file")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"path":   path,
		"name":   t.Filename,
		"pieces": len(t.Pieces),
	}).Debug("Decoded torrent file")
	return t, nil
}

// DecodeReader reads r to EOF and decodes the result.
func DecodeReader(r io.Reader) (*Torrent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Kind: KindIO, Err: errors.Wrap(err, "read torrent")}
	}
	return DecodeBytes(data)
}
