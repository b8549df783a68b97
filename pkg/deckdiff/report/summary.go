// Package report turns a comparison into reviewable output: the paginated
// visual diff and plain-text summaries.
package report

import (
	"fmt"
	"io"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/match"
	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// Summary writes one line per source slide followed by the target-only
// slides, e.g. "slide 1 -> slide 2", "slide 3 only in source".
func Summary(w io.Writer, res match.Result) error {
	for _, s := range res.Source {
		var err error
		if s.Kind == models.Matched {
			_, err = fmt.Fprintf(w, "slide %d -> slide %d\n", s.Page.Position, s.Peer)
		} else {
			_, err = fmt.Fprintf(w, "slide %d only in source\n", s.Page.Position)
		}
		if err != nil {
			return err
		}
	}
	for _, t := range res.Target {
		if t.Kind != models.TargetOnly {
			continue
		}
		if _, err := fmt.Fprintf(w, "slide %d only in target\n", t.Page.Position); err != nil {
			return err
		}
	}
	return nil
}

// SequenceDiff returns a unified diff of the two decks' fingerprint
// sequences, one hex fingerprint line per page. Empty when the decks are identical.
func SequenceDiff(source, target *models.Deck, context int) (string, error) {
	if context <= 0 {
		context = 3
	}
	u := difflib.UnifiedDiff{
		A:        sequenceLines(source),
		B:        sequenceLines(target),
		FromFile: deckName(source, "source"),
		ToFile:   deckName(target, "target"),
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(u)
}

// sequenceLines omits positions so moved slides diff as moves, not edits.
func sequenceLines(d *models.Deck) []string {
	lines := make([]string, 0, d.Len())
	for i := 0; i < d.Len(); i++ {
		lines = append(lines, d.Pages[i].Fingerprint.String()+"\n")
	}
	return lines
}

func deckName(d *models.Deck, fallback string) string {
	if d == nil || strings.TrimSpace(d.Name) == "" {
		return fallback
	}
	return d.Name
}
