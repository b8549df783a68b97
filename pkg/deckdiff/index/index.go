// Package index builds a Deck from a directory of rendered pages and their
// fingerprint sidecars.
package index

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/fingerprint"
	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// imageExts are the page image types the renderer produces.
var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Load indexes dir. Pages are ordered by the number embedded in their file
// names and must form the exact sequence 1..N. A directory with no pages
// yields an empty deck.
func Load(dir string, algo fingerprint.Algorithm) (*models.Deck, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, malformed(dir, 0, "resolving directory", err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, malformed(absDir, 0, "reading directory", err)
	}

	sidecarExt := algo.SidecarExt()
	sidecars := make(map[int]string)
	images := make(map[int]string)

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != sidecarExt && !imageExts[ext] {
			continue
		}
		n, ok := fingerprint.PageNumber(name)
		if !ok {
			continue
		}

		seen := images
		if ext == sidecarExt {
			seen = sidecars
		}
		if prev, dup := seen[n]; dup {
			return nil, malformed(absDir, n, "duplicate page number in "+prev+" and "+name, nil)
		}
		seen[n] = name
	}

	for n, img := range images {
		if _, ok := sidecars[n]; !ok {
			return nil, malformed(absDir, n, "missing fingerprint sidecar for "+img, nil)
		}
	}

	positions := make([]int, 0, len(sidecars))
	for n := range sidecars {
		positions = append(positions, n)
	}
	sort.Ints(positions)

	deck := &models.Deck{
		Name:  filepath.Base(absDir),
		Dir:   absDir,
		Pages: make([]models.Page, 0, len(positions)),
	}

	for i, n := range positions {
		if n != i+1 {
			return nil, malformed(absDir, i+1, "gap in page numbering", nil)
		}

		sc, err := fingerprint.ReadSidecar(filepath.Join(absDir, sidecars[n]))
		if err != nil {
			return nil, malformed(absDir, n, "unreadable sidecar", err)
		}
		if filepath.Base(sc.ImageName) != sc.ImageName {
			return nil, malformed(absDir, n, "sidecar image "+sc.ImageName+" is outside the deck directory", nil)
		}
		if got, ok := fingerprint.PageNumber(sc.ImageName); !ok || got != n {
			return nil, malformed(absDir, n, "sidecar references image "+sc.ImageName+" of another page", nil)
		}

		imagePath := filepath.Join(absDir, sc.ImageName)
		if _, err := os.Stat(imagePath); err != nil {
			return nil, malformed(absDir, n, "missing page image", err)
		}

		deck.Pages = append(deck.Pages, models.Page{
			Position:    n,
			Fingerprint: sc.Fingerprint,
			ImagePath:   imagePath,
		})
	}

	return deck, nil
}
