package deckdiff

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/fingerprint"
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/index"
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/storage"
	"github.com/himanishpuri/DeckDiff/pkg/models"
	"github.com/himanishpuri/DeckDiff/pkg/utils"
)

// ErrCacheDisabled is returned by cache operations when no Storage is configured.
var ErrCacheDisabled = errors.New("render cache is disabled")

// cachedDeck reuses a previous render of the same file bytes, or renders
// into a fresh cache directory and records it.
func (s *deckService) cachedDeck(ctx context.Context, deckPath string) (*models.Deck, error) {
	algo := s.config.Algorithm
	hash, err := fingerprint.HashFile(algo, deckPath)
	if err != nil {
		return nil, err
	}
	key := hash.String()

	hit, err := s.storage.FindRender(key, string(algo), s.config.DPI)
	switch {
	case err == nil && !utils.DirExists(hit.Dir):
		s.log.Warnf("Cached render directory %s is gone", hit.Dir)
		s.dropRender(hit)
	case err == nil:
		deck, loadErr := index.Load(hit.Dir, algo)
		if loadErr == nil && deck.Len() == hit.PageCount {
			s.log.Infof("Using cached render of %s [%s] (%d slides)", filepath.Base(deckPath), hash.Short(), deck.Len())
			return deck, nil
		}
		s.log.Warnf("Discarding stale cached render %s: %v", hit.Dir, loadErr)
		s.dropRender(hit)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	id := utils.GenerateUUID()
	dir := filepath.Join(s.config.cacheDir(), id)
	deck, err := s.renderInto(ctx, deckPath, dir)
	if err != nil {
		if rmErr := utils.DeleteDir(dir); rmErr != nil {
			s.log.Warnf("Failed to remove %s: %v", dir, rmErr)
		}
		return nil, err
	}

	rec := &models.DeckRender{
		ID:         id,
		SourceHash: key,
		SourceName: filepath.Base(deckPath),
		Algorithm:  string(algo),
		DPI:        s.config.DPI,
		Dir:        dir,
		PageCount:  deck.Len(),
	}
	if err := s.storage.SaveRender(rec); err != nil {
		s.log.Warnf("Failed to record render of %s in cache: %v", filepath.Base(deckPath), err)
	}
	return deck, nil
}

func (s *deckService) dropRender(r *models.DeckRender) {
	if err := s.storage.DeleteRender(r.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Warnf("Failed to delete cache entry %s: %v", r.ID, err)
	}
	if err := utils.DeleteDir(r.Dir); err != nil {
		s.log.Warnf("Failed to remove %s: %v", r.Dir, err)
	}
}

// ListCache returns all cached renders, newest first.
func (s *deckService) ListCache() ([]models.DeckRender, error) {
	if s.storage == nil {
		return nil, ErrCacheDisabled
	}
	return s.storage.ListRenders()
}

// PruneCache removes entries whose pages no longer index cleanly and cache
// directories no entry refers to. It returns the number of items removed.
func (s *deckService) PruneCache() (int, error) {
	if s.storage == nil {
		return 0, ErrCacheDisabled
	}
	renders, err := s.storage.ListRenders()
	if err != nil {
		return 0, err
	}

	removed := 0
	live := make(map[string]bool, len(renders))
	for i := range renders {
		r := &renders[i]
		deck, err := index.Load(r.Dir, fingerprint.Algorithm(r.Algorithm))
		if err == nil && deck.Len() == r.PageCount {
			live[filepath.Clean(r.Dir)] = true
			continue
		}
		s.log.Infof("Pruning stale render %s of %s", utils.ShortID(r.ID), r.SourceName)
		s.dropRender(r)
		removed++
	}

	entries, err := os.ReadDir(s.config.cacheDir())
	if err != nil {
		if os.IsNotExist(err) {
			return removed, nil
		}
		return removed, err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(s.config.cacheDir(), e.Name())
		if live[filepath.Clean(dir)] {
			continue
		}
		if err := utils.DeleteDir(dir); err != nil {
			s.log.Warnf("Failed to remove %s: %v", dir, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// ClearCache removes every cached render and returns how many were removed.
func (s *deckService) ClearCache() (int, error) {
	if s.storage == nil {
		return 0, ErrCacheDisabled
	}
	renders, err := s.storage.ListRenders()
	if err != nil {
		return 0, err
	}
	for i := range renders {
		s.dropRender(&renders[i])
	}
	return len(renders), nil
}
