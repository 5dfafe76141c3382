package torrent

import (
	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
	"github.com/pkg/errors"

	"dottorrent/pkg/sha1hash"
)

// ErrNoInfoDict is returned by HashInfo for documents without an "info" key.
var ErrNoInfoDict = errors.New("no info dictionary to hash")

// HashInfo returns the info hash of a metainfo document: the SHA-1 of the
// "info" value exactly as it is encoded in data. Other keys are skipped
// unread, so their types do not matter.
func HashInfo(data []byte) (sha1hash.Hash, error) {
	var doc struct {
		Info bencode.Bytes `bencode:"info"`
	}
	if err := bencode.Unmarshal(data, &doc); err != nil {
		return sha1hash.Hash{}, errors.Wrap(err, "failed to read info dictionary")
	}
	if len(doc.Info) == 0 {
		return sha1hash.Hash{}, ErrNoInfoDict
	}
	return sha1hash.Hash(metainfo.HashBytes(doc.Info)), nil
}
