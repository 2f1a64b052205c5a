package ded

import (
	"fmt"
	"sort"
	"strings"
)

type AbsentFragmentError struct {
	Fragment string
}

func (e *AbsentFragmentError) Error() string {
	return fmt.Sprintf("cannot find entry with identifier prefix %s", e.Fragment)
}

type AmbiguousFragmentError struct {
	Fragment string
	Matches  []string
}

func (e *AmbiguousFragmentError) Error() string {
	return fmt.Sprintf("ambiguous identifier prefix %s, matches %s", e.Fragment, strings.Join(e.Matches, ", "))
}

type trieNode struct {
	children map[rune]int
	entries  []Entry
}

// Index maps identifiers, and any prefix of one, to snapshot entries.
// Nodes live in a single slice and refer to their children by position.
type Index struct {
	nodes []trieNode
	size  int
}

func NewIndex() *Index {
	return &Index{nodes: []trieNode{{}}}
}

func NewIndexFrom(entries []Entry) *Index {
	idx := NewIndex()
	for _, e := range entries {
		idx.Insert(e)
	}
	return idx
}

// BuildIndexAsync builds the index in a goroutine. The caller hands over
// entries and must not modify them afterwards.
func BuildIndexAsync(entries []Entry) <-chan *Index {
	ch := make(chan *Index, 1)
	go func() {
		ch <- NewIndexFrom(entries)
	}()
	return ch
}

func (x *Index) Len() int { return x.size }

// Insert stores e under its full identifier and reports whether the
// identifier was not present before.
func (x *Index) Insert(e Entry) bool {
	cur := 0
	for _, r := range e.Hash {
		next, ok := x.nodes[cur].children[r]
		if !ok {
			x.nodes = append(x.nodes, trieNode{})
			next = len(x.nodes) - 1
			if x.nodes[cur].children == nil {
				x.nodes[cur].children = make(map[rune]int)
			}
			x.nodes[cur].children[r] = next
		}
		cur = next
	}

	isNew := len(x.nodes[cur].entries) == 0
	x.nodes[cur].entries = append(x.nodes[cur].entries, e)
	x.size++
	return isNew
}

func (x *Index) find(fragment string) (int, bool) {
	cur := 0
	for _, r := range fragment {
		next, ok := x.nodes[cur].children[r]
		if !ok {
			return 0, false
		}
		cur = next
	}
	return cur, true
}

// LookupPrefix returns every entry whose identifier starts with fragment,
// ordered by identifier.
func (x *Index) LookupPrefix(fragment string) []Entry {
	start, ok := x.find(fragment)
	if !ok {
		return nil
	}

	var result []Entry
	stack := []int{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := x.nodes[n]
		result = append(result, node.entries...)

		keys := make([]rune, 0, len(node.children))
		for r := range node.children {
			keys = append(keys, r)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
		for _, r := range keys {
			stack = append(stack, node.children[r])
		}
	}
	return result
}

// Resolve returns the single entry matching fragment.
func (x *Index) Resolve(fragment string) (Entry, error) {
	matches := x.LookupPrefix(fragment)
	switch len(matches) {
	case 0:
		return Entry{}, &AbsentFragmentError{Fragment: fragment}
	case 1:
		return matches[0], nil
	}

	hashes := make([]string, len(matches))
	for i, m := range matches {
		hashes[i] = m.Hash
	}
	return Entry{}, &AmbiguousFragmentError{Fragment: fragment, Matches: hashes}
}
