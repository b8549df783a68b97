package models

import (
	"encoding/hex"
	"fmt"
)

// FingerprintSize is the byte length of every page fingerprint.
const FingerprintSize = 32

// Fingerprint is the content identity of one rendered page.
type Fingerprint [FingerprintSize]byte

// ParseFingerprint decodes a hex fingerprint as written in sidecar files.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	if len(s) != hex.EncodedLen(FingerprintSize) {
		return fp, fmt.Errorf("fingerprint must be %d hex characters, got %d", hex.EncodedLen(FingerprintSize), len(s))
	}
	if _, err := hex.Decode(fp[:], []byte(s)); err != nil {
		return fp, fmt.Errorf("decoding fingerprint: %w", err)
	}
	return fp, nil
}

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Short returns the first 8 hex characters, enough for log lines.
func (f Fingerprint) Short() string {
	return f.String()[:8]
}

// Page is one rendered slide.
type Page struct {
	Position    int         // 1-based position in render order
	Fingerprint Fingerprint // Content identity
	ImagePath   string      // Absolute path of the rendered image
}

// Deck is the ordered, immutable page list of one input document.
type Deck struct {
	Name  string // Display name, usually the input file stem
	Dir   string // Directory the deck was indexed from
	Pages []Page // Pages[i].Position == i+1
}

// Len returns the number of pages.
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}

// Page returns the page at a 1-based position.
func (d *Deck) Page(pos int) (Page, bool) {
	if pos < 1 || pos > d.Len() {
		return Page{}, false
	}
	return d.Pages[pos-1], true
}
