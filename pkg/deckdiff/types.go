package deckdiff

import (
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/match"
	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// Report is the outcome of one comparison.
type Report struct {
	RunID     string            // UUID of the run
	Output    string            // Path of the written PDF, empty when none was requested
	Source    *models.Deck      // Indexed source deck
	Target    *models.Deck      // Indexed target deck
	Result    match.Result      // Page correspondence
	Plans     []models.PagePlan // Output pages in order
	Counts    match.Counts      // Matched / source-only / target-only tallies
	Identical bool              // Same pages in the same order
}
