package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// Algorithm selects the hash used for page fingerprints.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// DefaultAlgorithm matches the sidecars written by earlier versions of the tool.
const DefaultAlgorithm = SHA256

// ParseAlgorithm accepts the algorithm names used in config files and flags.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3, "b3":
		return BLAKE3, nil
	default:
		return "", fmt.Errorf("unknown fingerprint algorithm %q", name)
	}
}

// SidecarExt is the extension of the fingerprint file written next to each image.
func (a Algorithm) SidecarExt() string {
	return "." + string(a)
}

func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("unknown fingerprint algorithm %q", string(a))
	}
}

// Sum fingerprints an in-memory buffer.
func Sum(algo Algorithm, data []byte) (models.Fingerprint, error) {
	var fp models.Fingerprint
	switch algo {
	case SHA256:
		fp = sha256.Sum256(data)
	case BLAKE3:
		fp = blake3.Sum256(data)
	default:
		return fp, fmt.Errorf("unknown fingerprint algorithm %q", string(algo))
	}
	return fp, nil
}

// HashReader fingerprints everything readable from r.
func HashReader(algo Algorithm, r io.Reader) (models.Fingerprint, error) {
	var fp models.Fingerprint
	h, err := algo.newHash()
	if err != nil {
		return fp, err
	}
	if _, err := io.Copy(h, r); err != nil {
		return fp, fmt.Errorf("hashing: %w", err)
	}
	copy(fp[:], h.Sum(nil))
	return fp, nil
}

// HashFile fingerprints the file at path without loading it whole.
func HashFile(algo Algorithm, path string) (models.Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Fingerprint{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fp, err := HashReader(algo, f)
	if err != nil {
		return fp, fmt.Errorf("%s: %w", path, err)
	}
	return fp, nil
}
