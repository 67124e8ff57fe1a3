package generator

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Check compares data with the file at output. A missing or differing file
// yields ErrStaleOutput together with a line diff.
func Check(output string, data []byte) error {
	existing, err := os.ReadFile(output)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s does not exist", ErrStaleOutput, output)
		}
		return err
	}
	if string(existing) == string(data) {
		return nil
	}
	return fmt.Errorf("%w: %s\n%s", ErrStaleOutput, output, LineDiff(string(existing), string(data)))
}

// LineDiff renders a unified-style line diff from old to new, prefixing
// removed lines with "-" and added lines with "+". Unchanged lines are
// omitted.
func LineDiff(old, new string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
