// Package sample loads address lists for batch runs and the validation sets
// used to measure accuracy.
package sample

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// CommentMarker starts a comment, either as a whole line or trailing text.
const CommentMarker = "--"

// LoadList reads an address list from path.
func LoadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sample: open %s", path)
	}
	defer f.Close()
	return ParseList(f)
}

// ParseList reads one address per line. Lines starting with the comment
// marker and blank lines are skipped; text after a marker is dropped; the
// rest is trimmed and uppercased.
func ParseList(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, CommentMarker) {
			continue
		}
		if i := strings.Index(line, CommentMarker); i >= 0 {
			line = line[:i]
		}
		line = strings.ToUpper(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "sample: read list")
	}
	return out, nil
}
