// Package match computes the page correspondence between two decks.
//
// Pages correspond only when their fingerprints are equal, and each page is
// used at most once. Source pages are visited in position order and each one
// takes the lowest-positioned unconsumed target page with the same
// fingerprint. Duplicated slides are therefore paired in their original
// order; the result does not minimise displacement and must not be replaced
// by an optimal assignment.
package match

import (
	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// Result holds the classification of every page of both decks, in position order.
type Result struct {
	Source []models.ClassifiedPage
	Target []models.ClassifiedPage
}

// Pair is a matched (source, target) position pair.
type Pair struct {
	Source int
	Target int
}

// Counts summarises a Result.
type Counts struct {
	Matched    int
	SourceOnly int
	TargetOnly int
}

// bucket lists the target positions sharing one fingerprint, ascending.
// next is the index of the first unconsumed entry.
type bucket struct {
	positions []int
	next      int
}

// Match classifies every page of source and target. It never fails; nil or
// empty decks simply produce no matched pairs.
func Match(source, target *models.Deck) Result {
	srcLen, tgtLen := source.Len(), target.Len()

	buckets := make(map[models.Fingerprint]*bucket, tgtLen)
	for i := 0; i < tgtLen; i++ {
		p := target.Pages[i]
		b, ok := buckets[p.Fingerprint]
		if !ok {
			b = &bucket{}
			buckets[p.Fingerprint] = b
		}
		b.positions = append(b.positions, p.Position)
	}

	// peerOf[i] is the source position consuming target position i+1, 0 if none.
	peerOf := make([]int, tgtLen)

	res := Result{
		Source: make([]models.ClassifiedPage, 0, srcLen),
		Target: make([]models.ClassifiedPage, 0, tgtLen),
	}

	for i := 0; i < srcLen; i++ {
		p := source.Pages[i]
		b, ok := buckets[p.Fingerprint]
		if !ok || b.next >= len(b.positions) {
			res.Source = append(res.Source, models.ClassifiedPage{Page: p, Kind: models.SourceOnly})
			continue
		}
		// Positions are appended in ascending order, so next is always the
		// lowest unconsumed target.
		tpos := b.positions[b.next]
		b.next++
		peerOf[tpos-1] = p.Position
		res.Source = append(res.Source, models.ClassifiedPage{Page: p, Kind: models.Matched, Peer: tpos})
	}

	for i := 0; i < tgtLen; i++ {
		p := target.Pages[i]
		if peerOf[i] == 0 {
			res.Target = append(res.Target, models.ClassifiedPage{Page: p, Kind: models.TargetOnly})
			continue
		}
		res.Target = append(res.Target, models.ClassifiedPage{Page: p, Kind: models.Matched, Peer: peerOf[i]})
	}

	return res
}

// Pairs returns the matched pairs in source order.
func (r Result) Pairs() []Pair {
	pairs := make([]Pair, 0, len(r.Source))
	for _, c := range r.Source {
		if c.Kind == models.Matched {
			pairs = append(pairs, Pair{Source: c.Page.Position, Target: c.Peer})
		}
	}
	return pairs
}

// Counts tallies the classification.
func (r Result) Counts() Counts {
	var c Counts
	for _, s := range r.Source {
		if s.Kind == models.Matched {
			c.Matched++
		} else {
			c.SourceOnly++
		}
	}
	for _, t := range r.Target {
		if t.Kind != models.Matched {
			c.TargetOnly++
		}
	}
	return c
}

// Identical reports whether both decks have the same pages in the same order.
func (r Result) Identical() bool {
	if len(r.Source) != len(r.Target) {
		return false
	}
	for _, s := range r.Source {
		if s.Kind != models.Matched || s.Peer != s.Page.Position {
			return false
		}
	}
	return true
}
