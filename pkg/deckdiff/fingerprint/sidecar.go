package fingerprint

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// DefaultPrefix is the file name prefix of rendered pages.
const DefaultPrefix = "slide"

// pageNumberPattern extracts the page number from names like slide_007.png.
var pageNumberPattern = regexp.MustCompile(`_(\d+)\.[^.]+$`)

// Sidecar is the parsed content of a fingerprint file.
type Sidecar struct {
	Fingerprint models.Fingerprint
	ImageName   string
}

// PageFileName builds the zero-padded file name for page n, e.g. slide_007.png.
func PageFileName(prefix string, n int, ext string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%03d%s", prefix, n, ext)
}

// PageNumber returns the page number embedded in a rendered file name.
func PageNumber(name string) (int, bool) {
	m := pageNumberPattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// FormatSidecar renders the single sidecar line, sha256sum style.
func FormatSidecar(s Sidecar) string {
	return fmt.Sprintf("%s  %s\n", s.Fingerprint, s.ImageName)
}

// ParseSidecar parses a sidecar line written by FormatSidecar.
func ParseSidecar(line string) (Sidecar, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) != 2 {
		return Sidecar{}, fmt.Errorf("expected \"<hash>  <image>\", got %q", strings.TrimSpace(line))
	}
	fp, err := models.ParseFingerprint(strings.ToLower(fields[0]))
	if err != nil {
		return Sidecar{}, err
	}
	return Sidecar{Fingerprint: fp, ImageName: fields[1]}, nil
}

// WriteSidecar fingerprints imagePath and writes its sidecar next to it.
// It returns the sidecar path and the fingerprint.
func WriteSidecar(algo Algorithm, imagePath string) (string, models.Fingerprint, error) {
	fp, err := HashFile(algo, imagePath)
	if err != nil {
		return "", fp, err
	}

	sidecarPath := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + algo.SidecarExt()
	line := FormatSidecar(Sidecar{Fingerprint: fp, ImageName: filepath.Base(imagePath)})
	if err := os.WriteFile(sidecarPath, []byte(line), 0o644); err != nil {
		return "", fp, fmt.Errorf("writing sidecar %s: %w", sidecarPath, err)
	}
	return sidecarPath, fp, nil
}

// ReadSidecar loads and parses a sidecar file.
func ReadSidecar(path string) (Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sidecar{}, fmt.Errorf("reading sidecar: %w", err)
	}
	s, err := ParseSidecar(string(data))
	if err != nil {
		return Sidecar{}, fmt.Errorf("parsing sidecar %s: %w", filepath.Base(path), err)
	}
	return s, nil
}
