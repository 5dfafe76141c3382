package torrent

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Code identifies exactly which check rejected a metainfo document. There is
// one code per field and failure kind.
type Code int

const (
	NotADict Code = iota + 1

	AnnounceListNotAList
	AnnounceListTierNotAList
	TrackerURLNotAString
	TrackerURLInvalidUTF8
	TrackerURLParseError
	AnnounceURLNotAString
	AnnounceURLInvalidUTF8
	AnnounceURLParseError

	NodeListNotAList
	NodeNotAList
	NodeInvalidList
	NodeHostNotAString
	NodeHostInvalidUTF8
	NodeHostParseError
	NodePortNotANumber
	NodePortOutOfRange

	URLListNotAString
	URLListInvalidUTF8
	URLListParseError
	HTTPSeedsNotAList
	HTTPSeedNotAString
	HTTPSeedInvalidUTF8
	HTTPSeedParseError

	InfoDictNotADict
	RootHashNotAString
	RootHashInvalidHashLength
	PrivateFlagNotANumber
	NameNotAString
	NameInvalidUTF8
	NameNotPresent
	PieceLengthNotANumber
	PieceLengthOutOfRange
	PieceLengthNotPresent
	PiecesNotAString
	PiecesNotPresent
	InvalidPiecesLength

	LengthNotANumber
	LengthOutOfRange
	FilesNotAList
	NietherLengthOrFilesPresent
	FileInfoNotADict
	FileLengthNotANumber
	FileLengthOutOfRange
	FileLengthNotPresent
	FilePathNotAList
	FilePathNotPresent
	EmptyFilePath
	DirNameNotAString
	DirNameInvalidUTF8
	FileNameNotAString
	FileNameInvalidUTF8
	DuplicateFileName

	numCodes
)

var codeNames = [numCodes]string{
	NotADict:                    "NotADict",
	AnnounceListNotAList:        "AnnounceListNotAList",
	AnnounceListTierNotAList:    "AnnounceListTierNotAList",
	TrackerURLNotAString:        "TrackerURLNotAString",
	TrackerURLInvalidUTF8:       "TrackerURLInvalidUTF8",
	TrackerURLParseError:        "TrackerURLParseError",
	AnnounceURLNotAString:       "AnnounceURLNotAString",
	AnnounceURLInvalidUTF8:      "AnnounceURLInvalidUTF8",
	AnnounceURLParseError:       "AnnounceURLParseError",
	NodeListNotAList:            "NodeListNotAList",
	NodeNotAList:                "NodeNotAList",
	NodeInvalidList:             "NodeInvalidList",
	NodeHostNotAString:          "NodeHostNotAString",
	NodeHostInvalidUTF8:         "NodeHostInvalidUTF8",
	NodeHostParseError:          "NodeHostParseError",
	NodePortNotANumber:          "NodePortNotANumber",
	NodePortOutOfRange:          "NodePortOutOfRange",
	URLListNotAString:           "URLListNotAString",
	URLListInvalidUTF8:          "URLListInvalidUTF8",
	URLListParseError:           "URLListParseError",
	HTTPSeedsNotAList:           "HTTPSeedsNotAList",
	HTTPSeedNotAString:          "HTTPSeedNotAString",
	HTTPSeedInvalidUTF8:         "HTTPSeedInvalidUTF8",
	HTTPSeedParseError:          "HTTPSeedParseError",
	InfoDictNotADict:            "InfoDictNotADict",
	RootHashNotAString:          "RootHashNotAString",
	RootHashInvalidHashLength:   "RootHashInvalidHashLength",
	PrivateFlagNotANumber:       "PrivateFlagNotANumber",
	NameNotAString:              "NameNotAString",
	NameInvalidUTF8:             "NameInvalidUTF8",
	NameNotPresent:              "NameNotPresent",
	PieceLengthNotANumber:       "PieceLengthNotANumber",
	PieceLengthOutOfRange:       "PieceLengthOutOfRange",
	PieceLengthNotPresent:       "PieceLengthNotPresent",
	PiecesNotAString:            "PiecesNotAString",
	PiecesNotPresent:            "PiecesNotPresent",
	InvalidPiecesLength:         "InvalidPiecesLength",
	LengthNotANumber:            "LengthNotANumber",
	LengthOutOfRange:            "LengthOutOfRange",
	FilesNotAList:               "FilesNotAList",
	NietherLengthOrFilesPresent: "NietherLengthOrFilesPresent",
	FileInfoNotADict:            "FileInfoNotADict",
	FileLengthNotANumber:        "FileLengthNotANumber",
	FileLengthOutOfRange:        "FileLengthOutOfRange",
	FileLengthNotPresent:        "FileLengthNotPresent",
	FilePathNotAList:            "FilePathNotAList",
	FilePathNotPresent:          "FilePathNotPresent",
	EmptyFilePath:               "EmptyFilePath",
	DirNameNotAString:           "DirNameNotAString",
	DirNameInvalidUTF8:          "DirNameInvalidUTF8",
	FileNameNotAString:          "FileNameNotAString",
	FileNameInvalidUTF8:         "FileNameInvalidUTF8",
	DuplicateFileName:           "DuplicateFileName",
}

func (c Code) String() string {
	if c > 0 && c < numCodes {
		return codeNames[c]
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// DecodeError is returned by Decode. Len is set for InvalidPiecesLength and
// RootHashInvalidHashLength. Err holds the UTF-8, URL, host or digest error
// behind the *InvalidUTF8 and *ParseError codes.
type DecodeError struct {
	Code Code
	Len  int
	Err  error
}

func newError(code Code) *DecodeError {
	return &DecodeError{Code: code}
}

func wrapError(code Code, err error) *DecodeError {
	return &DecodeError{Code: code, Err: err}
}

func (e *DecodeError) Error() string {
	msg := "torrent: " + e.Code.String()
	switch e.Code {
	case InvalidPiecesLength, RootHashInvalidHashLength:
		msg += fmt.Sprintf("(%d)", e.Len)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches any *DecodeError with the same Code, so callers can write
// errors.Is(err, &torrent.DecodeError{Code: torrent.NameNotPresent}).
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Code == e.Code
}

// CodeOf returns the Code carried by err, or 0 if err is not (and does not
// wrap) a *DecodeError.
func CodeOf(err error) Code {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code
	}
	return 0
}

// InvalidUTF8Error reports a byte string that had to be text but was not
// valid UTF-8. ValidUpTo is the length of the valid prefix.
type InvalidUTF8Error struct {
	ValidUpTo int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("invalid utf-8 sequence at byte %d", e.ValidUpTo)
}

// ErrRelativeURL is returned for URLs without a scheme.
var ErrRelativeURL = errors.New("relative URL without a base")

func checkUTF8(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	i := 0
	for i < len(b) {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		i += size
	}
	return "", &InvalidUTF8Error{ValidUpTo: i}
}
