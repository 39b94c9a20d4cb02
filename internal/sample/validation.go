package sample

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/al-ius/aus-address-matcher/internal/match"
)

// Case is one validation row: a noisy input and the address it should
// resolve to.
type Case struct {
	Input    string `json:"input"`
	Expected string `json:"expected_address"`
	ID       string `json:"gnaf_pid"`
}

// LoadValidation reads a validation CSV from path.
func LoadValidation(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sample: open %s", path)
	}
	defer f.Close()
	return ParseValidation(f)
}

// ParseValidation reads rows of input,expected_address,gnaf_pid. A header row
// naming the first column "input" is skipped. Inputs are uppercased.
func ParseValidation(r io.Reader) ([]Case, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var cases []Case
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "sample: read validation row %d", line)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "input") {
			continue
		}
		if len(record) < 2 {
			return nil, eris.Errorf("sample: validation row %d has %d fields, want at least 2", line, len(record))
		}
		c := Case{
			Input:    strings.ToUpper(strings.TrimSpace(record[0])),
			Expected: strings.TrimSpace(record[1]),
		}
		if len(record) > 2 {
			c.ID = strings.TrimSpace(record[2])
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// Inputs returns the input column.
func Inputs(cases []Case) []string {
	out := make([]string, len(cases))
	for i, c := range cases {
		out[i] = c.Input
	}
	return out
}

// Mismatch is a validation case the matcher got wrong.
type Mismatch struct {
	Case
	Got   string  `json:"got,omitempty"`
	GotID string  `json:"got_id,omitempty"`
	Score float64 `json:"score,omitempty"`
}

func (m Mismatch) String() string {
	got := m.Got
	if got == "" {
		got = "<no match>"
	}
	return fmt.Sprintf("%s\n  want %s\n  got  %s", m.Input, m.Expected, got)
}

// Report is the outcome of a validation run.
type Report struct {
	Total      int        `json:"total"`
	Correct    int        `json:"correct"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Accuracy is the share of cases matched to the expected address.
func (r Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Evaluate compares results to cases by Seq. A result is correct when its
// address equals the expected address and, if the case names an id, the ids
// agree. Cases without a result count as mismatches.
func Evaluate(cases []Case, results []match.Result) Report {
	bySeq := make(map[int]match.Result, len(results))
	for _, r := range results {
		bySeq[r.Seq] = r
	}

	rep := Report{Total: len(cases)}
	for i, c := range cases {
		r, ok := bySeq[i]
		if ok && r.Record != nil && r.Record.Address == c.Expected && (c.ID == "" || r.Record.ID == c.ID) {
			rep.Correct++
			continue
		}
		m := Mismatch{Case: c}
		if ok && r.Record != nil {
			m.Got, m.GotID, m.Score = r.Record.Address, r.Record.ID, r.Score
		}
		rep.Mismatches = append(rep.Mismatches, m)
	}
	return rep
}
