package render

import (
	"fmt"
	"os"

	"rsc.io/pdf"
)

// PageCount returns the number of pages in a PDF file.
func PageCount(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("opening PDF: %w", err)
	}

	// rsc.io/pdf panics on some malformed inputs instead of returning errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading %s: %v", path, r)
		}
	}()

	r, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return r.NumPage(), nil
}
