package layout

import (
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/match"
	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// PlanMoved pairs source position i with target position i on row i,
// regardless of whether the two pages match each other. A row is dropped
// only when suppress is set and its two pages are an unmoved matched pair.
// Every shown page whose peer sits on another output page gets a
// MoveAnnotation pointing at that page, so both sides of one row may carry one.
func PlanMoved(res match.Result, suppress bool) []models.PagePlan {
	src, tgt := res.Source, res.Target
	rows := max(len(src), len(tgt))

	// number[i] is the output page number of row i, 0 when suppressed.
	number := make([]int, rows)
	next := 1
	for i := 0; i < rows; i++ {
		if suppress && i < len(src) && i < len(tgt) && unmoved(src[i], tgt[i]) {
			continue
		}
		number[i] = next
		next++
	}

	plans := make([]models.PagePlan, 0, next-1)
	for i := 0; i < rows; i++ {
		if number[i] == 0 {
			continue
		}

		var left, right *models.PageSide
		if i < len(src) {
			left = newSide(src[i])
			left.Move = moveTo(number[i], src[i], number)
		}
		if i < len(tgt) {
			right = newSide(tgt[i])
			right.Move = moveTo(number[i], tgt[i], number)
		}

		plans = append(plans, models.PagePlan{
			Number: number[i],
			Kind:   rowKind(left, right),
			Left:   left,
			Right:  right,
			Title:  title(left, right),
		})
	}
	return plans
}

// unmoved reports whether s and t are matched to each other on the same row.
func unmoved(s, t models.ClassifiedPage) bool {
	return s.Kind == models.Matched && t.Kind == models.Matched && s.Peer == t.Page.Position
}

// moveTo returns the annotation for a page drawn on output page current.
// The peer of position p in one deck sits on row p-1 of the other column.
func moveTo(current int, c models.ClassifiedPage, number []int) *models.MoveAnnotation {
	if c.Kind != models.Matched {
		return nil
	}
	peerRow := c.Peer - 1
	if peerRow < 0 || peerRow >= len(number) {
		return nil
	}
	peerPage := number[peerRow]
	if peerPage == 0 || peerPage == current {
		return nil
	}
	dir := models.Down
	if peerPage < current {
		dir = models.Up
	}
	return &models.MoveAnnotation{TargetPage: peerPage, Direction: dir}
}

func rowKind(left, right *models.PageSide) models.RowKind {
	switch {
	case left == nil:
		return models.TargetOnlyRow
	case right == nil:
		return models.SourceOnlyRow
	case left.Kind == models.SourceOnly && right.Kind == models.TargetOnly:
		return models.BothUnmatched
	case left.Kind == models.SourceOnly:
		return models.MixedSourceOnly
	case right.Kind == models.TargetOnly:
		return models.MixedTargetOnly
	default:
		return models.BothMatched
	}
}
