// Package fs provides file-backed inputs for the pipeline: the
// line-delimited URL source and the optional proxy list.
package fs

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/pkobus/gleaner"
)

// Ensure LineSource implements gleaner.URLSource at compile time.
var _ gleaner.URLSource = (*LineSource)(nil)

// LineSource streams candidate URLs from a line-delimited text file, one
// per non-blank trimmed line, preserving file order. The file is scanned
// incrementally so memory use is O(1) in the number of URLs.
type LineSource struct {
	file    *os.File
	scanner *bufio.Scanner
}

// OpenLineSource opens the URL list at path. Fails with code EUNAVAILABLE
// if the file cannot be opened; callers treat that as fatal and do not
// start the pipeline.
func OpenLineSource(path string) (*LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gleaner.Errorf(gleaner.EUNAVAILABLE, "cannot open URL source %q: %v", path, err)
	}

	scanner := bufio.NewScanner(f)
	// Some URL lists carry very long data URLs; the default 64KB token
	// limit is too small for those.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &LineSource{file: f, scanner: scanner}, nil
}

// Next returns the next non-blank trimmed line.
func (s *LineSource) Next(ctx context.Context) (string, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return "", false, err
			}
			return "", false, nil
		}
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		return line, true, nil
	}
}

// Close closes the underlying file.
func (s *LineSource) Close() error {
	return s.file.Close()
}
