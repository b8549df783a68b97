package index

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/fingerprint"
)

// writePages renders fake page images with sidecars into dir.
func writePages(t *testing.T, dir string, contents ...string) {
	t.Helper()

	for i, c := range contents {
		img := filepath.Join(dir, fingerprint.PageFileName("slide", i+1, ".png"))
		if err := os.WriteFile(img, []byte(c), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", img, err)
		}
		if _, _, err := fingerprint.WriteSidecar(fingerprint.SHA256, img); err != nil {
			t.Fatalf("Failed to write sidecar: %v", err)
		}
	}
}

func assertMalformed(t *testing.T, err error, page int) {
	t.Helper()

	if err == nil {
		t.Fatal("Expected malformed index error, got nil")
	}
	if !errors.Is(err, ErrMalformedIndex) {
		t.Fatalf("Expected ErrMalformedIndex, got %v", err)
	}
	var mie *MalformedIndexError
	if !errors.As(err, &mie) {
		t.Fatalf("Expected *MalformedIndexError, got %T", err)
	}
	if mie.Page != page {
		t.Errorf("Expected page %d in error, got %d (%v)", page, mie.Page, err)
	}
}

// TestLoad tests indexing a well-formed deck directory
func TestLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "quarterly")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writePages(t, dir, "one", "two", "one")

	// Unrelated files are ignored.
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, "deck.pdf"), []byte("x"), 0o644)

	deck, err := Load(dir, fingerprint.SHA256)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if deck.Name != "quarterly" {
		t.Errorf("Expected deck name quarterly, got %s", deck.Name)
	}
	if deck.Len() != 3 {
		t.Fatalf("Expected 3 pages, got %d", deck.Len())
	}
	for i, p := range deck.Pages {
		if p.Position != i+1 {
			t.Errorf("Page %d has position %d", i+1, p.Position)
		}
		if !filepath.IsAbs(p.ImagePath) {
			t.Errorf("Expected absolute image path, got %s", p.ImagePath)
		}
	}

	want, _ := fingerprint.Sum(fingerprint.SHA256, []byte("one"))
	if deck.Pages[0].Fingerprint != want {
		t.Errorf("Unexpected fingerprint %s", deck.Pages[0].Fingerprint)
	}
	if deck.Pages[0].Fingerprint != deck.Pages[2].Fingerprint {
		t.Error("Expected identical pages to share a fingerprint")
	}
	if deck.Pages[0].Fingerprint == deck.Pages[1].Fingerprint {
		t.Error("Expected different pages to differ")
	}

	if _, ok := deck.Page(4); ok {
		t.Error("Expected no page 4")
	}
}

// TestLoadEmpty tests that a directory without pages is an empty deck
func TestLoadEmpty(t *testing.T) {
	deck, err := Load(t.TempDir(), fingerprint.SHA256)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if deck.Len() != 0 {
		t.Errorf("Expected empty deck, got %d pages", deck.Len())
	}
}

// TestLoadOtherAlgorithm tests that sidecars of another algorithm are not read
func TestLoadOtherAlgorithm(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, "one")

	_, err := Load(dir, fingerprint.BLAKE3)
	assertMalformed(t, err, 1)
}

// TestLoadMissingDir tests indexing a directory that does not exist
func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), fingerprint.SHA256)
	assertMalformed(t, err, 0)
}

// TestLoadGap tests that page numbers must be contiguous
func TestLoadGap(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, "one", "two", "three")

	os.Remove(filepath.Join(dir, "slide_002.png"))
	os.Remove(filepath.Join(dir, "slide_002.sha256"))

	_, err := Load(dir, fingerprint.SHA256)
	assertMalformed(t, err, 2)
}

// TestLoadDuplicate tests two files claiming the same page number
func TestLoadDuplicate(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, "one", "two")

	if err := os.WriteFile(filepath.Join(dir, "slide_0002.png"), []byte("dup"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir, fingerprint.SHA256)
	assertMalformed(t, err, 2)
}

// TestLoadMissingSidecar tests an image without a fingerprint
func TestLoadMissingSidecar(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, "one", "two")
	os.Remove(filepath.Join(dir, "slide_002.sha256"))

	_, err := Load(dir, fingerprint.SHA256)
	assertMalformed(t, err, 2)
}

// TestLoadMissingImage tests a sidecar whose image is gone
func TestLoadMissingImage(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, "one", "two")
	os.Remove(filepath.Join(dir, "slide_001.png"))

	_, err := Load(dir, fingerprint.SHA256)
	assertMalformed(t, err, 1)
}

// TestLoadBadSidecar tests unparseable and misdirected sidecars
func TestLoadBadSidecar(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, "one", "two")
	os.WriteFile(filepath.Join(dir, "slide_002.sha256"), []byte("garbage\n"), 0o644)

	_, err := Load(dir, fingerprint.SHA256)
	assertMalformed(t, err, 2)

	dir = t.TempDir()
	writePages(t, dir, "one", "two")
	data, _ := os.ReadFile(filepath.Join(dir, "slide_001.sha256"))
	os.WriteFile(filepath.Join(dir, "slide_002.sha256"), data, 0o644)

	_, err = Load(dir, fingerprint.SHA256)
	assertMalformed(t, err, 2)
}

// TestLoadSidecarEscapesDir tests that a sidecar cannot point outside the deck directory
func TestLoadSidecarEscapesDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "deck")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writePages(t, dir, "one")

	// A page image with the right number exists one level up.
	os.WriteFile(filepath.Join(root, "x_001.png"), []byte("outside"), 0o644)
	data, _ := os.ReadFile(filepath.Join(dir, "slide_001.sha256"))
	line := strings.Replace(string(data), "slide_001.png", "../x_001.png", 1)
	os.WriteFile(filepath.Join(dir, "slide_001.sha256"), []byte(line), 0o644)

	_, err := Load(dir, fingerprint.SHA256)
	assertMalformed(t, err, 1)
}

// TestMalformedIndexErrorMessage tests error formatting and unwrapping
func TestMalformedIndexErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := malformed("/decks/a", 3, "unreadable sidecar", cause)

	want := "malformed slide index /decks/a (page 3): unreadable sidecar: boom"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to its cause")
	}
	if !errors.Is(err, ErrMalformedIndex) {
		t.Error("Expected error to match ErrMalformedIndex")
	}
}
