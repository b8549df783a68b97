// Package layout decides which pages the diff document shows and in what order.
//
// Two independent policies exist. PlanMoved keeps both decks in their own
// order and walks them row by row, annotating pages whose peer lands on a
// different output page. PlanGrouped emits the matcher's classification list
// as is, with matched pairs side by side.
package layout

import (
	"fmt"

	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/match"
	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// Options selects the layout policy.
type Options struct {
	SuppressUnchanged bool // drop rows that show an unmoved matched pair
	ShowMovedPages    bool // lock-step rows with move annotations instead of grouping
}

// DefaultOptions is moved-page mode without suppression.
func DefaultOptions() Options {
	return Options{ShowMovedPages: true}
}

// Plan lays out res according to opts.
func Plan(res match.Result, opts Options) []models.PagePlan {
	if opts.ShowMovedPages {
		return PlanMoved(res, opts.SuppressUnchanged)
	}
	return PlanGrouped(res, opts.SuppressUnchanged)
}

func newSide(c models.ClassifiedPage) *models.PageSide {
	return &models.PageSide{
		Page:    c.Page,
		Kind:    c.Kind,
		Changed: c.Kind != models.Matched,
	}
}

// title describes the pages shown on one output page.
func title(left, right *models.PageSide) string {
	switch {
	case left != nil && right != nil:
		return fmt.Sprintf("Source slide %d / Target slide %d", left.Page.Position, right.Page.Position)
	case left != nil:
		return fmt.Sprintf("Source slide %d (not in target)", left.Page.Position)
	case right != nil:
		return fmt.Sprintf("Target slide %d (not in source)", right.Page.Position)
	default:
		return ""
	}
}
