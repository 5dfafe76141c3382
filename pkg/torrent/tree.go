package torrent

import (
	"sort"

	"github.com/samber/lo"
)

// Node is a File or a Dir. No other implementations exist.
type Node interface {
	isNode()
}

// File is a leaf of Length bytes.
type File struct {
	Length uint64
}

// Dir maps names to children. Names are unique by construction.
type Dir map[string]Node

func (File) isNode() {}
func (Dir) isNode()  {}

// Names returns the entries of d in lexical order.
func (d Dir) Names() []string {
	names := lo.Keys(d)
	sort.Strings(names)
	return names
}

// WalkFunc is called for every file under a node. path is relative to the
// node Walk started from and is empty when that node is itself a File.
type WalkFunc func(path []string, f File) error

// Walk visits every file under n in lexical path order. It stops at the first
// error returned by fn.
func Walk(n Node, fn WalkFunc) error {
	return walk(n, nil, fn)
}

func walk(n Node, prefix []string, fn WalkFunc) error {
	switch n := n.(type) {
	case File:
		return fn(prefix, n)
	case Dir:
		for _, name := range n.Names() {
			path := append(prefix[:len(prefix):len(prefix)], name)
			if err := walk(n[name], path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// TotalLength sums the lengths of all files under n.
func TotalLength(n Node) uint64 {
	var total uint64
	_ = Walk(n, func(_ []string, f File) error {
		total += f.Length
		return nil
	})
	return total
}

// FileCount counts the files under n.
func FileCount(n Node) int {
	count := 0
	_ = Walk(n, func([]string, File) error {
		count++
		return nil
	})
	return count
}
