package ded

type TransformKind int

const (
	Rename TransformKind = iota
	Remove
)

func (k TransformKind) String() string {
	if k == Rename {
		return "rename"
	}
	return "remove"
}

// Transform is one operation read from the edited listing.
type Transform struct {
	Kind     TransformKind
	Fragment string
	Pattern  string // Rename only
}

func NewRename(fragment, pattern string) Transform {
	return Transform{Kind: Rename, Fragment: fragment, Pattern: pattern}
}

func NewRemove(fragment string) Transform {
	return Transform{Kind: Remove, Fragment: fragment}
}

type Summary struct {
	Renamed []string
	Removed []string
	Skipped []string
	Failed  []string
	DryRun  bool
}

func (s Summary) Empty() bool {
	return len(s.Renamed)+len(s.Removed)+len(s.Skipped)+len(s.Failed) == 0
}
