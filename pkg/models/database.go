package models

import "time"

// DeckRender describes a cached render of one deck file.
type DeckRender struct {
	ID         string    // UUID of the cache entry
	SourceHash string    // Hex fingerprint of the deck file bytes
	SourceName string    // Base name of the deck file when it was rendered
	Algorithm  string    // Fingerprint algorithm of the page sidecars
	DPI        int       // Rasterization resolution
	Dir        string    // Directory holding the page images and sidecars
	PageCount  int       // Number of rendered pages
	CreatedAt  time.Time // When the render finished
}
