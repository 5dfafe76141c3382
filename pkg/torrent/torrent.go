// Package torrent decodes BitTorrent metainfo (.torrent) documents into a
// validated Torrent, reporting the first schema violation as a *DecodeError.
package torrent

import (
	"fmt"
	"net/url"

	"dottorrent/pkg/host"
	"dottorrent/pkg/sha1hash"
)

// Torrent is a decoded metainfo document. A Torrent is never modified after
// Decode returns it and may be shared between goroutines.
type Torrent struct {
	// Trackers are announce URLs grouped into tiers (BEP 12), in file order.
	Trackers [][]*url.URL
	// Nodes are DHT bootstrap hints (BEP 5).
	Nodes []DHTNode
	// HTTPSeeds are Hoffman-style HTTP seeds (BEP 17).
	HTTPSeeds []*url.URL
	// URLList is a GetRight-style web seed (BEP 19), or nil.
	URLList *url.URL
	// Private is the BEP 27 private flag.
	Private bool
	// PieceLength is the size of each piece in bytes.
	PieceLength uint64
	// Pieces holds one hash per piece, in order.
	Pieces []sha1hash.Hash
	// MerkleRoot is the BEP 30 root hash, or nil.
	MerkleRoot *sha1hash.Hash
	// Filename is the suggested name of the root file or directory.
	Filename string
	// Contents is a File in single-file mode and a Dir in multi-file mode.
	Contents Node
}

// DHTNode is a (host, port) pair from the nodes list.
type DHTNode struct {
	Host host.Host
	Port uint16
}

func (n DHTNode) String() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// MultiFile reports whether the torrent was decoded from a files list.
func (t *Torrent) MultiFile() bool {
	_, ok := t.Contents.(Dir)
	return ok
}

// TotalLength is the sum of all file lengths.
func (t *Torrent) TotalLength() uint64 {
	return TotalLength(t.Contents)
}
