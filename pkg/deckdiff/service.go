package deckdiff

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/index"
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/layout"
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/match"
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/render"
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/report"
	"github.com/himanishpuri/DeckDiff/pkg/logger"
	"github.com/himanishpuri/DeckDiff/pkg/models"
	"github.com/himanishpuri/DeckDiff/pkg/utils"
)

// deckService is the default implementation of the Service interface.
type deckService struct {
	storage  Storage
	renderer Renderer
	log      Logger
	config   *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	if cfg.Renderer == nil {
		cfg.Renderer = render.NewConverter(render.Config{
			SofficeBinaries: cfg.SofficeBinaries,
			PdftoppmBinary:  cfg.PdftoppmBinary,
			DPI:             cfg.DPI,
			Timeout:         cfg.Timeout,
			Algorithm:       cfg.Algorithm,
		})
	}

	stor := cfg.Storage
	if stor == nil && cfg.CacheEnabled {
		var err error
		stor, err = NewSQLiteStorage(cfg.cacheDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open render cache: %w", err)
		}
	}

	return &deckService{
		storage:  stor,
		renderer: cfg.Renderer,
		log:      cfg.Logger,
		config:   cfg,
	}, nil
}

// Compare renders both decks in parallel, matches their pages and writes the
// visual diff to outputPath. An empty outputPath skips the PDF.
func (s *deckService) Compare(ctx context.Context, sourcePath, targetPath, outputPath string) (*Report, error) {
	runID := utils.GenerateUUID()
	runDir := filepath.Join(s.config.WorkDir, "run-"+utils.ShortID(runID))
	s.log.Infof("[%s] comparing %s with %s", utils.ShortID(runID), sourcePath, targetPath)

	if !s.config.KeepWork {
		defer func() {
			if err := utils.DeleteDir(runDir); err != nil {
				s.log.Warnf("[%s] failed to remove %s: %v", utils.ShortID(runID), runDir, err)
			}
		}()
	} else if s.storage != nil {
		s.log.Infof("[%s] rendered pages kept in render cache %s", utils.ShortID(runID), s.config.cacheDir())
	} else {
		s.log.Infof("[%s] rendered pages kept in %s", utils.ShortID(runID), runDir)
	}

	var source, target *models.Deck
	start := time.Now()

	// Either conversion failing cancels the other; matching starts only after both finish.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.prepareDeck(gctx, sourcePath, filepath.Join(runDir, "source"))
		if err != nil {
			return fmt.Errorf("source deck: %w", err)
		}
		source = d
		return nil
	})
	g.Go(func() error {
		d, err := s.prepareDeck(gctx, targetPath, filepath.Join(runDir, "target"))
		if err != nil {
			return fmt.Errorf("target deck: %w", err)
		}
		target = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.log.Debugf("[%s] rendered %d + %d pages in %s", utils.ShortID(runID), source.Len(), target.Len(), time.Since(start))

	return s.compareDecks(runID, source, target, outputPath)
}

// CompareIndexed compares two directories that already hold rendered pages and sidecars.
func (s *deckService) CompareIndexed(ctx context.Context, sourceDir, targetDir, outputPath string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runID := utils.GenerateUUID()

	source, err := index.Load(sourceDir, s.config.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("source deck: %w", err)
	}
	target, err := index.Load(targetDir, s.config.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("target deck: %w", err)
	}
	return s.compareDecks(runID, source, target, outputPath)
}

func (s *deckService) compareDecks(runID string, source, target *models.Deck, outputPath string) (*Report, error) {
	short := utils.ShortID(runID)

	start := time.Now()
	res := match.Match(source, target)
	counts := res.Counts()
	s.log.Debugf("[%s] matched in %s", short, time.Since(start))
	s.log.Infof("[%s] %d matched, %d only in source, %d only in target", short, counts.Matched, counts.SourceOnly, counts.TargetOnly)

	start = time.Now()
	plans := layout.Plan(res, layout.Options{
		SuppressUnchanged: s.config.SuppressUnchanged,
		ShowMovedPages:    s.config.ShowMovedPages,
	})
	s.log.Debugf("[%s] planned %d output pages in %s", short, len(plans), time.Since(start))

	rep := &Report{
		RunID:     runID,
		Source:    source,
		Target:    target,
		Result:    res,
		Plans:     plans,
		Counts:    counts,
		Identical: res.Identical(),
	}

	if outputPath == "" {
		return rep, nil
	}

	start = time.Now()
	info := report.DocumentInfo{SourceName: source.Name, TargetName: target.Name}
	if err := report.WriteDocument(outputPath, info, plans); err != nil {
		return nil, fmt.Errorf("failed to write diff document: %w", err)
	}
	s.log.Debugf("[%s] wrote %s in %s", short, outputPath, time.Since(start))
	s.log.Infof("[%s] diff written to %s (%d pages)", short, outputPath, len(plans))

	rep.Output = outputPath
	return rep, nil
}

// Render converts one deck into outDir and returns its index.
func (s *deckService) Render(ctx context.Context, deckPath, outDir string) (*models.Deck, error) {
	deck, err := s.renderInto(ctx, deckPath, outDir)
	if err != nil {
		return nil, err
	}
	deck.Name = utils.FileStem(deckPath)
	return deck, nil
}

// prepareDeck returns the indexed deck for deckPath, from the cache when possible.
func (s *deckService) prepareDeck(ctx context.Context, deckPath, outDir string) (*models.Deck, error) {
	if s.storage == nil {
		return s.Render(ctx, deckPath, outDir)
	}

	deck, err := s.cachedDeck(ctx, deckPath)
	if err != nil {
		return nil, err
	}
	deck.Name = utils.FileStem(deckPath)
	return deck, nil
}

func (s *deckService) renderInto(ctx context.Context, deckPath, outDir string) (*models.Deck, error) {
	start := time.Now()
	pages, err := s.renderer.RenderDeck(ctx, deckPath, outDir)
	if err != nil {
		return nil, fmt.Errorf("rendering %s failed: %w", filepath.Base(deckPath), err)
	}
	s.log.Infof("Rendered %s: %d slides in %s", filepath.Base(deckPath), pages, time.Since(start).Round(time.Millisecond))

	deck, err := index.Load(outDir, s.config.Algorithm)
	if err != nil {
		return nil, err
	}
	if deck.Len() != pages {
		return nil, &index.MalformedIndexError{
			Dir:    outDir,
			Reason: fmt.Sprintf("renderer reported %d pages but %d were indexed", pages, deck.Len()),
		}
	}
	return deck, nil
}

// Close releases all resources held by the service.
func (s *deckService) Close() error {
	if s.storage == nil {
		return nil
	}
	return s.storage.Close()
}
