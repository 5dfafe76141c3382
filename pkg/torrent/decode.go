package torrent

import (
	"net/url"

	"dottorrent/pkg/bvalue"
	"dottorrent/pkg/host"
	"dottorrent/pkg/sha1hash"
)

// Decode builds a Torrent from a parsed metainfo document. It stops at the
// first violation and returns it as a *DecodeError; no partial Torrent is
// ever returned.
//
// When the document has no "info" key the top-level dictionary is read as the
// info dictionary. Some non-standard generators emit such files; conforming
// documents always carry "info".
func Decode(v bvalue.Value) (*Torrent, error) {
	root, err := expect[bvalue.Dict](v, NotADict)
	if err != nil {
		return nil, err
	}

	t := &Torrent{}

	if t.Trackers, err = decodeTrackers(root); err != nil {
		return nil, err
	}
	if t.Nodes, err = decodeNodes(root); err != nil {
		return nil, err
	}

	if ul, ok := root.Get("url-list"); ok {
		if t.URLList, err = urlField(ul, URLListNotAString, URLListInvalidUTF8, URLListParseError); err != nil {
			return nil, err
		}
	}
	if t.HTTPSeeds, err = decodeHTTPSeeds(root); err != nil {
		return nil, err
	}

	info := root
	if iv, ok := root.Get("info"); ok {
		if info, err = expect[bvalue.Dict](iv, InfoDictNotADict); err != nil {
			return nil, err
		}
	}

	if err := decodeInfo(info, t); err != nil {
		return nil, err
	}
	return t, nil
}

// decodeTrackers reads announce-list, falling back to announce only when
// announce-list is absent. A present but empty announce-list still wins.
func decodeTrackers(root bvalue.Dict) ([][]*url.URL, error) {
	if alv, ok := root.Get("announce-list"); ok {
		al, err := expect[bvalue.List](alv, AnnounceListNotAList)
		if err != nil {
			return nil, err
		}
		tiers := make([][]*url.URL, 0, len(al))
		for _, tv := range al {
			tier, err := expect[bvalue.List](tv, AnnounceListTierNotAList)
			if err != nil {
				return nil, err
			}
			urls := make([]*url.URL, 0, len(tier))
			for _, uv := range tier {
				u, err := urlField(uv, TrackerURLNotAString, TrackerURLInvalidUTF8, TrackerURLParseError)
				if err != nil {
					return nil, err
				}
				urls = append(urls, u)
			}
			tiers = append(tiers, urls)
		}
		return tiers, nil
	}

	if av, ok := root.Get("announce"); ok {
		u, err := urlField(av, AnnounceURLNotAString, AnnounceURLInvalidUTF8, AnnounceURLParseError)
		if err != nil {
			return nil, err
		}
		return [][]*url.URL{{u}}, nil
	}

	return nil, nil
}

func decodeNodes(root bvalue.Dict) ([]DHTNode, error) {
	nlv, ok := root.Get("nodes")
	if !ok {
		return nil, nil
	}
	nl, err := expect[bvalue.List](nlv, NodeListNotAList)
	if err != nil {
		return nil, err
	}

	nodes := make([]DHTNode, 0, len(nl))
	for _, nv := range nl {
		pair, err := expect[bvalue.List](nv, NodeNotAList)
		if err != nil {
			return nil, err
		}
		if len(pair) != 2 {
			return nil, newError(NodeInvalidList)
		}

		name, err := text(pair[0], NodeHostNotAString, NodeHostInvalidUTF8)
		if err != nil {
			return nil, err
		}
		h, err := host.Parse(name)
		if err != nil {
			return nil, wrapError(NodeHostParseError, err)
		}

		pn, err := expect[bvalue.Int](pair[1], NodePortNotANumber)
		if err != nil {
			return nil, err
		}
		port, ok := pn.Uint16()
		if !ok {
			return nil, newError(NodePortOutOfRange)
		}

		nodes = append(nodes, DHTNode{Host: h, Port: port})
	}
	return nodes, nil
}

func decodeHTTPSeeds(root bvalue.Dict) ([]*url.URL, error) {
	hlv, ok := root.Get("httpseeds")
	if !ok {
		return nil, nil
	}
	hl, err := expect[bvalue.List](hlv, HTTPSeedsNotAList)
	if err != nil {
		return nil, err
	}
	seeds := make([]*url.URL, 0, len(hl))
	for _, hv := range hl {
		u, err := urlField(hv, HTTPSeedNotAString, HTTPSeedInvalidUTF8, HTTPSeedParseError)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, u)
	}
	return seeds, nil
}

func decodeInfo(info bvalue.Dict, t *Torrent) error {
	if rv, ok := info.Get("root hash"); ok {
		raw, err := expect[bvalue.Bytes](rv, RootHashNotAString)
		if err != nil {
			return err
		}
		h, err := sha1hash.FromBytes(raw)
		if err != nil {
			return &DecodeError{Code: RootHashInvalidHashLength, Len: len(raw), Err: err}
		}
		t.MerkleRoot = &h
	}

	if pv, ok := info.Get("private"); ok {
		p, err := expect[bvalue.Int](pv, PrivateFlagNotANumber)
		if err != nil {
			return err
		}
		t.Private = p.Sign() != 0
	}

	nv, ok := info.Get("name")
	if !ok {
		return newError(NameNotPresent)
	}
	name, err := text(nv, NameNotAString, NameInvalidUTF8)
	if err != nil {
		return err
	}
	t.Filename = name

	plv, ok := info.Get("piece length")
	if !ok {
		return newError(PieceLengthNotPresent)
	}
	if t.PieceLength, err = uint64Field(plv, PieceLengthNotANumber, PieceLengthOutOfRange); err != nil {
		return err
	}

	pv, ok := info.Get("pieces")
	if !ok {
		return newError(PiecesNotPresent)
	}
	pieces, err := expect[bvalue.Bytes](pv, PiecesNotAString)
	if err != nil {
		return err
	}
	if t.Pieces, err = slicePieces(pieces); err != nil {
		return err
	}

	// length selects single-file mode; files is then never looked at
	if lv, ok := info.Get("length"); ok {
		length, err := uint64Field(lv, LengthNotANumber, LengthOutOfRange)
		if err != nil {
			return err
		}
		t.Contents = File{Length: length}
		return nil
	}

	fv, ok := info.Get("files")
	if !ok {
		return newError(NietherLengthOrFilesPresent)
	}
	files, err := expect[bvalue.List](fv, FilesNotAList)
	if err != nil {
		return err
	}
	tree, err := buildTree(files)
	if err != nil {
		return err
	}
	t.Contents = tree
	return nil
}

func slicePieces(raw bvalue.Bytes) ([]sha1hash.Hash, error) {
	if len(raw)%sha1hash.Size != 0 {
		return nil, &DecodeError{Code: InvalidPiecesLength, Len: len(raw)}
	}
	pieces := make([]sha1hash.Hash, 0, len(raw)/sha1hash.Size)
	for off := 0; off < len(raw); off += sha1hash.Size {
		h, err := sha1hash.FromBytes(raw[off : off+sha1hash.Size])
		if err != nil {
			return nil, &DecodeError{Code: InvalidPiecesLength, Len: len(raw), Err: err}
		}
		pieces = append(pieces, h)
	}
	return pieces, nil
}

// buildTree turns the flat files list into a directory tree rooted at an
// unnamed Dir.
func buildTree(files bvalue.List) (Dir, error) {
	root := Dir{}
	for _, fv := range files {
		entry, err := expect[bvalue.Dict](fv, FileInfoNotADict)
		if err != nil {
			return nil, err
		}

		lv, ok := entry.Get("length")
		if !ok {
			return nil, newError(FileLengthNotPresent)
		}
		length, err := uint64Field(lv, FileLengthNotANumber, FileLengthOutOfRange)
		if err != nil {
			return nil, err
		}

		pv, ok := entry.Get("path")
		if !ok {
			return nil, newError(FilePathNotPresent)
		}
		path, err := expect[bvalue.List](pv, FilePathNotAList)
		if err != nil {
			return nil, err
		}
		if len(path) == 0 {
			return nil, newError(EmptyFilePath)
		}

		if err := addFile(root, path, length); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// addFile walks the directory components of path below dir, creating
// directories on first use, and inserts the last component as a file.
func addFile(dir Dir, path bvalue.List, length uint64) error {
	if len(path) == 1 {
		name, err := text(path[0], FileNameNotAString, FileNameInvalidUTF8)
		if err != nil {
			return err
		}
		if _, exists := dir[name]; exists {
			return newError(DuplicateFileName)
		}
		dir[name] = File{Length: length}
		return nil
	}

	name, err := text(path[0], DirNameNotAString, DirNameInvalidUTF8)
	if err != nil {
		return err
	}
	child, exists := dir[name]
	if !exists {
		child = Dir{}
		dir[name] = child
	}
	sub, ok := child.(Dir)
	if !ok {
		return newError(DuplicateFileName)
	}
	return addFile(sub, path[1:], length)
}

// expect asserts that v is the variant T, failing with code otherwise.
func expect[T bvalue.Value](v bvalue.Value, code Code) (T, error) {
	t, ok := v.(T)
	if !ok {
		return t, newError(code)
	}
	return t, nil
}

func text(v bvalue.Value, notString, invalidUTF8 Code) (string, error) {
	b, err := expect[bvalue.Bytes](v, notString)
	if err != nil {
		return "", err
	}
	s, err := checkUTF8(b)
	if err != nil {
		return "", wrapError(invalidUTF8, err)
	}
	return s, nil
}

func urlField(v bvalue.Value, notString, invalidUTF8, parseErr Code) (*url.URL, error) {
	s, err := text(v, notString, invalidUTF8)
	if err != nil {
		return nil, err
	}
	u, err := parseURL(s)
	if err != nil {
		return nil, wrapError(parseErr, err)
	}
	return u, nil
}

func parseURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, &url.Error{Op: "parse", URL: s, Err: ErrRelativeURL}
	}
	return u, nil
}

func uint64Field(v bvalue.Value, notNumber, outOfRange Code) (uint64, error) {
	n, err := expect[bvalue.Int](v, notNumber)
	if err != nil {
		return 0, err
	}
	u, ok := n.Uint64()
	if !ok {
		return 0, newError(outOfRange)
	}
	return u, nil
}
