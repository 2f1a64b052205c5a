package ded

import "go.uber.org/zap"

const DefaultHashWidth = 8

// SnapshotBuilder picks the identifier width for a batch of entries.
type SnapshotBuilder struct {
	Width int
}

func NewSnapshotBuilder(width int) *SnapshotBuilder {
	if width <= 0 {
		width = DefaultHashWidth
	}
	return &SnapshotBuilder{Width: width}
}

// Assign widens b.Width until every short identifier in entries is distinct
// and returns the final width. Uniqueness is checked across the whole batch,
// so entries seen before a bump are widened along with the rest.
func (b *SnapshotBuilder) Assign(entries []Entry) int {
	if b.Width > DigestLen {
		b.Width = DigestLen
	}

	for b.Width < DigestLen && hasCollision(entries, b.Width) {
		b.Width++
		L().Debug("identifier collision, widening", zap.Int("width", b.Width))
	}
	return b.Width
}

func hasCollision(entries []Entry, width int) bool {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		short := e.Short(width)
		if _, ok := seen[short]; ok {
			return true
		}
		seen[short] = struct{}{}
	}
	return false
}
