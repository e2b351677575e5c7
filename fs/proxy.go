package fs

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// LoadProxies reads proxy endpoints from a line-delimited file, one address
// per non-blank trimmed line. An absent file is not an error: it yields an
// empty list and the browser connects directly.
func LoadProxies(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readLines(f)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
