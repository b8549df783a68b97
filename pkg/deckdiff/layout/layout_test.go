package layout

import (
	"crypto/sha256"
	"testing"

	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/match"
	"github.com/himanishpuri/DeckDiff/pkg/models"
)

func deckOf(labels ...string) *models.Deck {
	d := &models.Deck{}
	for i, l := range labels {
		d.Pages = append(d.Pages, models.Page{Position: i + 1, Fingerprint: sha256.Sum256([]byte(l))})
	}
	return d
}

func matched(source, target []string) match.Result {
	return match.Match(deckOf(source...), deckOf(target...))
}

func assertMove(t *testing.T, side *models.PageSide, page int, dir models.Direction) {
	t.Helper()

	if side == nil {
		t.Fatal("Expected a page side, got nil")
	}
	if side.Move == nil {
		t.Fatalf("Expected move annotation to page %d, got none", page)
	}
	if side.Move.TargetPage != page || side.Move.Direction != dir {
		t.Errorf("Expected move %s to page %d, got %s to page %d", dir, page, side.Move.Direction, side.Move.TargetPage)
	}
}

func assertNoMove(t *testing.T, side *models.PageSide) {
	t.Helper()

	if side != nil && side.Move != nil {
		t.Errorf("Expected no move annotation, got %+v", *side.Move)
	}
}

// TestPlanMovedInsertDelete tests the lock-step layout of one insertion and one deletion
func TestPlanMovedInsertDelete(t *testing.T) {
	plans := PlanMoved(matched([]string{"h1", "h2", "h3"}, []string{"h2", "h3", "h4"}), false)

	if len(plans) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(plans))
	}

	wantKinds := []models.RowKind{models.MixedSourceOnly, models.BothMatched, models.MixedTargetOnly}
	for i, p := range plans {
		if p.Number != i+1 {
			t.Errorf("Page %d numbered %d", i+1, p.Number)
		}
		if p.Kind != wantKinds[i] {
			t.Errorf("Page %d: expected %s, got %s", i+1, wantKinds[i], p.Kind)
		}
	}

	assertNoMove(t, plans[0].Left)
	assertMove(t, plans[0].Right, 2, models.Down)
	assertMove(t, plans[1].Left, 1, models.Up)
	assertMove(t, plans[1].Right, 3, models.Down)
	assertMove(t, plans[2].Left, 2, models.Up)
	assertNoMove(t, plans[2].Right)

	if !plans[0].Left.Changed || plans[0].Right.Changed {
		t.Error("Expected only the unmatched side of page 1 to be changed")
	}
	if plans[0].Title != "Source slide 1 / Target slide 1" {
		t.Errorf("Unexpected title %q", plans[0].Title)
	}
}

// TestPlanMovedRowKinds tests every row classification
func TestPlanMovedRowKinds(t *testing.T) {
	plans := PlanMoved(matched(
		[]string{"a", "b", "x", "y", "c"},
		[]string{"a", "z", "b", "w"},
	), false)

	if len(plans) != 5 {
		t.Fatalf("Expected 5 pages, got %d", len(plans))
	}

	got := make([]models.RowKind, len(plans))
	for i, p := range plans {
		got[i] = p.Kind
	}
	expected := []models.RowKind{
		models.BothMatched,     // a | a
		models.MixedTargetOnly, // b | z
		models.MixedSourceOnly, // x | b
		models.BothUnmatched,   // y | w
		models.SourceOnlyRow,   // c |
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Page %d: expected %s, got %s", i+1, expected[i], got[i])
		}
	}
	if plans[4].Right != nil {
		t.Error("Expected missing target side on last page")
	}

	plans = PlanMoved(matched([]string{"a"}, []string{"a", "n"}), false)
	if plans[1].Kind != models.TargetOnlyRow || plans[1].Left != nil {
		t.Errorf("Expected target_only row, got %s", plans[1].Kind)
	}
	if plans[1].Title != "Target slide 2 (not in source)" {
		t.Errorf("Unexpected title %q", plans[1].Title)
	}
}

// TestPlanMovedSuppress tests that only unmoved matched rows are dropped
func TestPlanMovedSuppress(t *testing.T) {
	res := matched([]string{"a", "b", "c", "d"}, []string{"a", "c", "b", "d"})

	full := PlanMoved(res, false)
	plans := PlanMoved(res, true)

	if len(full) != 4 {
		t.Fatalf("Expected 4 pages without suppression, got %d", len(full))
	}
	if len(plans) != 2 {
		t.Fatalf("Expected 2 pages with suppression, got %d", len(plans))
	}
	for i, p := range plans {
		if p.Number != i+1 {
			t.Errorf("Expected consecutive numbering, page %d numbered %d", i+1, p.Number)
		}
	}

	// b and c swap between the two remaining pages.
	assertMove(t, plans[0].Left, 2, models.Down)
	assertMove(t, plans[0].Right, 2, models.Down)
	assertMove(t, plans[1].Left, 1, models.Up)
	assertMove(t, plans[1].Right, 1, models.Up)
}

// TestPlanMovedSuppressRenumbers tests that annotations use the renumbered output pages
func TestPlanMovedSuppressRenumbers(t *testing.T) {
	// Row 1 is suppressed; b moves from source row 3 to target row 2.
	res := matched([]string{"a", "x", "b"}, []string{"a", "b", "y"})
	plans := PlanMoved(res, true)

	if len(plans) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(plans))
	}
	assertMove(t, plans[0].Right, 2, models.Down)
	assertMove(t, plans[1].Left, 1, models.Up)
	assertNoMove(t, plans[0].Left)
	assertNoMove(t, plans[1].Right)
}

// TestPlanMovedIdentical tests identical decks with and without suppression
func TestPlanMovedIdentical(t *testing.T) {
	res := matched([]string{"a", "b", "c"}, []string{"a", "b", "c"})

	if plans := PlanMoved(res, true); len(plans) != 0 {
		t.Errorf("Expected no pages for identical decks with suppression, got %d", len(plans))
	}

	plans := PlanMoved(res, false)
	if len(plans) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(plans))
	}
	for _, p := range plans {
		if p.Kind != models.BothMatched {
			t.Errorf("Page %d: expected both_matched, got %s", p.Number, p.Kind)
		}
		assertNoMove(t, p.Left)
		assertNoMove(t, p.Right)
	}

	if plans := PlanMoved(matched(nil, nil), false); len(plans) != 0 {
		t.Errorf("Expected no pages for empty decks, got %d", len(plans))
	}
}

// TestPlanGrouped tests grouped mode ordering and suppression
func TestPlanGrouped(t *testing.T) {
	res := matched([]string{"h1", "h2", "h3"}, []string{"h2", "h3", "h4"})

	plans := PlanGrouped(res, false)
	if len(plans) != 4 {
		t.Fatalf("Expected 4 pages, got %d", len(plans))
	}

	expected := []models.RowKind{models.SourceOnlyRow, models.BothMatched, models.BothMatched, models.TargetOnlyRow}
	for i, p := range plans {
		if p.Kind != expected[i] {
			t.Errorf("Page %d: expected %s, got %s", i+1, expected[i], p.Kind)
		}
		if p.Number != i+1 {
			t.Errorf("Page %d numbered %d", i+1, p.Number)
		}
		assertNoMove(t, p.Left)
		assertNoMove(t, p.Right)
	}
	if plans[1].Left.Page.Position != 2 || plans[1].Right.Page.Position != 1 {
		t.Errorf("Expected source 2 beside target 1, got %d and %d", plans[1].Left.Page.Position, plans[1].Right.Page.Position)
	}

	suppressed := PlanGrouped(res, true)
	if len(suppressed) != 2 {
		t.Fatalf("Expected 2 pages with suppression, got %d", len(suppressed))
	}
	if suppressed[0].Kind != models.SourceOnlyRow || suppressed[1].Kind != models.TargetOnlyRow {
		t.Errorf("Unexpected kinds %s, %s", suppressed[0].Kind, suppressed[1].Kind)
	}
}

// TestPlanOptions tests mode dispatch and the row count bounds
func TestPlanOptions(t *testing.T) {
	res := matched([]string{"a", "b", "c", "d", "e"}, []string{"e", "a", "q"})

	moved := Plan(res, DefaultOptions())
	if len(moved) != 5 {
		t.Errorf("Expected max(5, 3) pages in moved mode, got %d", len(moved))
	}

	for _, suppress := range []bool{false, true} {
		opts := Options{SuppressUnchanged: suppress, ShowMovedPages: true}
		if n := len(Plan(res, opts)); n > len(moved) {
			t.Errorf("Suppression increased page count to %d", n)
		}
	}

	grouped := Plan(res, Options{ShowMovedPages: false})
	c := res.Counts()
	if len(grouped) != c.Matched+c.SourceOnly+c.TargetOnly {
		t.Errorf("Expected one grouped page per classification, got %d", len(grouped))
	}
}
