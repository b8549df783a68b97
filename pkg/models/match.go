package models

// MatchKind classifies a page after correspondence matching.
type MatchKind int

const (
	Matched MatchKind = iota
	SourceOnly
	TargetOnly
)

func (k MatchKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case SourceOnly:
		return "source_only"
	case TargetOnly:
		return "target_only"
	default:
		return "unknown"
	}
}

// ClassifiedPage tags a page with its match outcome.
// Peer is the 1-based position of the matched page in the other deck, 0 when unmatched.
type ClassifiedPage struct {
	Page Page
	Kind MatchKind
	Peer int
}

// IsMatched reports whether the page has a peer.
func (c ClassifiedPage) IsMatched() bool {
	return c.Kind == Matched
}
