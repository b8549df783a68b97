package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/fingerprint"
	"github.com/himanishpuri/DeckDiff/pkg/utils"
)

// ErrNoOffice is returned when none of the configured LibreOffice binaries could convert the deck.
var ErrNoOffice = errors.New("LibreOffice not found, install LibreOffice or set soffice binaries")

// Config controls how a deck is turned into page images.
type Config struct {
	SofficeBinaries []string              // Tried in order, first success wins
	PdftoppmBinary  string                // Poppler rasterizer
	DPI             int                   // Rasterization resolution
	Timeout         time.Duration         // Per external invocation
	Algorithm       fingerprint.Algorithm // Sidecar fingerprint algorithm
	Prefix          string                // Page file name prefix
}

// DefaultConfig converts through LibreOffice and rasterizes at 150 DPI.
func DefaultConfig() Config {
	return Config{
		SofficeBinaries: []string{"libreoffice", "soffice"},
		PdftoppmBinary:  "pdftoppm",
		DPI:             150,
		Timeout:         60 * time.Second,
		Algorithm:       fingerprint.DefaultAlgorithm,
		Prefix:          fingerprint.DefaultPrefix,
	}
}

// Converter renders decks with external tools.
type Converter struct {
	cfg Config
}

// NewConverter fills unset fields of cfg with defaults.
func NewConverter(cfg Config) *Converter {
	def := DefaultConfig()
	if len(cfg.SofficeBinaries) == 0 {
		cfg.SofficeBinaries = def.SofficeBinaries
	}
	if cfg.PdftoppmBinary == "" {
		cfg.PdftoppmBinary = def.PdftoppmBinary
	}
	if cfg.DPI <= 0 {
		cfg.DPI = def.DPI
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = def.Algorithm
	}
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	return &Converter{cfg: cfg}
}

// RenderDeck writes one image and one sidecar per page of deckPath into outDir
// and returns the page count. PDF input skips the LibreOffice step.
func (c *Converter) RenderDeck(ctx context.Context, deckPath, outDir string) (int, error) {
	if _, err := os.Stat(deckPath); err != nil {
		return 0, fmt.Errorf("deck not found: %w", err)
	}
	if err := utils.MakeDir(outDir); err != nil {
		return 0, fmt.Errorf("creating output dir: %w", err)
	}

	pdfPath := deckPath
	if !strings.EqualFold(filepath.Ext(deckPath), ".pdf") {
		scratch, err := os.MkdirTemp(outDir, ".convert-*")
		if err != nil {
			return 0, fmt.Errorf("creating scratch dir: %w", err)
		}
		defer utils.DeleteDir(scratch)

		pdfPath, err = c.ConvertToPDF(ctx, deckPath, scratch)
		if err != nil {
			return 0, err
		}
	}

	pages, err := PageCount(pdfPath)
	if err != nil {
		return 0, err
	}

	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		imagePath, err := c.RasterizePage(ctx, pdfPath, i, outDir)
		if err != nil {
			return 0, err
		}
		if _, _, err := fingerprint.WriteSidecar(c.cfg.Algorithm, imagePath); err != nil {
			return 0, err
		}
	}

	return pages, nil
}

// ConvertToPDF runs LibreOffice headless and returns the path of the produced PDF.
func (c *Converter) ConvertToPDF(ctx context.Context, deckPath, outDir string) (string, error) {
	absDeck, err := filepath.Abs(deckPath)
	if err != nil {
		return "", err
	}

	var lastErr error
	converted := false
	for _, bin := range c.cfg.SofficeBinaries {
		if err := c.run(ctx, bin, "--headless", "--convert-to", "pdf", "--outdir", outDir, absDeck); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}
		converted = true
		break
	}
	if !converted {
		if lastErr != nil {
			return "", fmt.Errorf("%w: %v", ErrNoOffice, lastErr)
		}
		return "", ErrNoOffice
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "*.pdf"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("PDF conversion of %s produced no output", filepath.Base(deckPath))
	}
	return matches[0], nil
}

// RasterizePage renders page n of pdfPath to <outDir>/<prefix>_NNN.png.
func (c *Converter) RasterizePage(ctx context.Context, pdfPath string, n int, outDir string) (string, error) {
	imagePath := filepath.Join(outDir, fingerprint.PageFileName(c.cfg.Prefix, n, ".png"))
	base := strings.TrimSuffix(imagePath, ".png")
	page := strconv.Itoa(n)

	err := c.run(ctx, c.cfg.PdftoppmBinary,
		"-png",
		"-r", strconv.Itoa(c.cfg.DPI),
		"-f", page,
		"-l", page,
		"-singlefile",
		pdfPath,
		base,
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("rasterizing page %d: %w", n, err)
	}

	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("rasterizing page %d: no image produced: %w", n, err)
	}
	return imagePath, nil
}

func (c *Converter) run(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", name, ctx.Err())
		}
		return fmt.Errorf("%s failed: %v (%s)", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
