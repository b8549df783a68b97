package deckdiff

import (
	"context"

	"github.com/himanishpuri/DeckDiff/pkg/models"
)

type Service interface {
	Compare(ctx context.Context, sourcePath, targetPath, outputPath string) (*Report, error)
	CompareIndexed(ctx context.Context, sourceDir, targetDir, outputPath string) (*Report, error)
	Render(ctx context.Context, deckPath, outDir string) (*models.Deck, error)
	ListCache() ([]models.DeckRender, error)
	PruneCache() (int, error)
	ClearCache() (int, error)
	Close() error
}

// Renderer turns a deck file into a directory of page images and sidecars.
type Renderer interface {
	RenderDeck(ctx context.Context, deckPath, outDir string) (int, error)
}

// Storage persists cached renders. FindRender and DeleteRender return
// storage.ErrNotFound when no entry matches.
type Storage interface {
	FindRender(sourceHash, algorithm string, dpi int) (*models.DeckRender, error)
	SaveRender(r *models.DeckRender) error
	ListRenders() ([]models.DeckRender, error)
	DeleteRender(id string) error
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
