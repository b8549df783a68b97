package models

// RowKind is the display classification of one output page.
type RowKind int

const (
	BothMatched RowKind = iota
	MixedSourceOnly
	MixedTargetOnly
	BothUnmatched
	SourceOnlyRow
	TargetOnlyRow
)

func (k RowKind) String() string {
	switch k {
	case BothMatched:
		return "both_matched"
	case MixedSourceOnly:
		return "mixed_source_only"
	case MixedTargetOnly:
		return "mixed_target_only"
	case BothUnmatched:
		return "both_unmatched"
	case SourceOnlyRow:
		return "source_only"
	case TargetOnlyRow:
		return "target_only"
	default:
		return "unknown"
	}
}

// Direction points from an annotated page towards its peer's page.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// MoveAnnotation marks a page whose matched peer is shown on another output page.
type MoveAnnotation struct {
	TargetPage int // 1-based output page number of the peer
	Direction  Direction
}

// PageSide is one column of an output page.
type PageSide struct {
	Page    Page
	Kind    MatchKind
	Changed bool            // true when the page has no peer
	Move    *MoveAnnotation // nil when the peer is on the same output page or absent
}

// PagePlan is one output page of the diff document.
type PagePlan struct {
	Number int // 1-based output page number
	Kind   RowKind
	Left   *PageSide // source column, nil when absent
	Right  *PageSide // target column, nil when absent
	Title  string
}
