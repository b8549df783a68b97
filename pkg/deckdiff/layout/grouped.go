package layout

import (
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/match"
	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// PlanGrouped emits one row per source classification in source order, a
// matched page sharing its row with its peer, followed by one row per
// target-only page in target order. Matched rows are dropped when suppress
// is set. Nothing is annotated as moved.
func PlanGrouped(res match.Result, suppress bool) []models.PagePlan {
	plans := make([]models.PagePlan, 0, len(res.Source)+len(res.Target))

	emit := func(kind models.RowKind, left, right *models.PageSide) {
		plans = append(plans, models.PagePlan{
			Number: len(plans) + 1,
			Kind:   kind,
			Left:   left,
			Right:  right,
			Title:  title(left, right),
		})
	}

	for _, s := range res.Source {
		if s.Kind != models.Matched {
			emit(models.SourceOnlyRow, newSide(s), nil)
			continue
		}
		if suppress {
			continue
		}
		if s.Peer < 1 || s.Peer > len(res.Target) {
			continue
		}
		emit(models.BothMatched, newSide(s), newSide(res.Target[s.Peer-1]))
	}

	for _, t := range res.Target {
		if t.Kind == models.TargetOnly {
			emit(models.TargetOnlyRow, nil, newSide(t))
		}
	}
	return plans
}
