package statement

import (
	"regexp"
	"strings"
)

// Segmentation splits raw statement text into candidate per-transaction
// blocks. Transactions are not uniformly line-delimited across statement
// layouts, so the segmenter looks for recurring anchor patterns that mark
// the start of a record: a date token at the start of a line, or an
// explicit "Date:" label. The span between two consecutive anchors (or
// between the last anchor and the end of the text) forms one candidate
// block.

var (
	// anchorPatterns, in evaluation order. A line matching any of them
	// starts a new candidate block.
	anchorPatterns = []*regexp.Regexp{
		// Date token at line start: 09-11-2024, 09/11/2024, 2024-11-09, 09-Nov-2024.
		regexp.MustCompile(`^\s*(?:\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{4}[-/.]\d{1,2}[-/.]\d{1,2}|\d{1,2}-[A-Za-z]{3}-\d{4})\b`),
		// Month-name date at line start: Nov 9, 2024.
		regexp.MustCompile(`(?i)^\s*(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2},?\s+\d{4}\b`),
		// Labeled date line.
		regexp.MustCompile(`(?i)^\s*date\s*[:=]`),
	}

	// pageNoiseRe matches page-break artifacts like "Page 3 of 12".
	pageNoiseRe = regexp.MustCompile(`(?i)(?:page|pg)\s+\d+\s+of\s+\d+|^\d+\s+of\s+\d+$`)
)

// noiseLines are whole lines of header/footer boilerplate that carry no
// transaction data, compared lowercased.
var noiseLines = map[string]struct{}{
	"phonepe":             {},
	"statement":           {},
	"transaction history": {},
	"account statement":   {},
	"page":                {},
}

// Segment splits raw text into candidate per-transaction blocks. It is
// pure and re-runnable: the same input always yields the same blocks, in
// source order. If no anchors are found the whole (filtered) text is
// returned as a single best-effort block; empty blocks are discarded.
func Segment(raw string) []string {
	lines := filterNoise(strings.Split(raw, "\n"))
	if len(lines) == 0 {
		return nil
	}

	var anchors []int
	for i, line := range lines {
		if isAnchor(line) {
			anchors = append(anchors, i)
		}
	}

	if len(anchors) == 0 {
		// Single-record fallback rather than failing outright.
		block := strings.TrimSpace(strings.Join(lines, "\n"))
		if block == "" {
			return nil
		}
		return []string{block}
	}

	blocks := make([]string, 0, len(anchors))
	for i, start := range anchors {
		end := len(lines)
		if i+1 < len(anchors) {
			end = anchors[i+1]
		}
		block := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func isAnchor(line string) bool {
	for _, re := range anchorPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// filterNoise drops empty lines, page-number artifacts and known
// header/footer boilerplate before anchor detection.
func filterNoise(lines []string) []string {
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if pageNoiseRe.MatchString(trimmed) {
			continue
		}
		if _, ok := noiseLines[strings.ToLower(trimmed)]; ok {
			continue
		}
		filtered = append(filtered, trimmed)
	}
	return filtered
}
