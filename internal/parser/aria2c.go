// Package parser turns raw download helper output into status lines.
//
// The helper drives aria2c, which redraws a one-line progress summary using
// carriage returns and ANSI colour codes:
//
//	[#2089b0 400.0KiB/33.2MiB(1%) CN:1 DL:115.7KiB ETA:4m51s]
//
// Parse is pure and never fails. Line buffering happens in the reader that
// feeds it, using ScanLines.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

	// completed/total, optional (percent), connections, speed, eta
	summary = regexp.MustCompile(`\[#[0-9a-zA-Z]+\s+([0-9.]+[A-Za-z]*)/([0-9.]+[A-Za-z]*)(?:\((\d{1,3})%\))?(?:\s+CN:\d+)?(?:\s+SD:\d+)?(?:\s+DL:([0-9.]+[A-Za-z]*))?(?:\s+UL:[0-9.]+[A-Za-z]*\([^)]*\))?(?:\s+ETA:([0-9hms]+))?\]`)

	barePercent = regexp.MustCompile(`(\d{1,3})(?:\.\d+)?%`)
)

// Parse normalizes a raw output chunk into a single display line.
func Parse(raw string) string {
	if raw == "" {
		return ""
	}

	line := lastRedraw(ansiEscape.ReplaceAllString(raw, ""))

	matches := summary.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return line
	}

	m := matches[len(matches)-1]
	completed, total, percent, speed, eta := m[1], m[2], m[3], m[4], m[5]

	var b strings.Builder
	if percent != "" {
		fmt.Fprintf(&b, "%s%% of %s", percent, total)
	} else {
		fmt.Fprintf(&b, "%s/%s", completed, total)
	}
	if speed != "" {
		fmt.Fprintf(&b, " at %s/s", speed)
	}
	if eta != "" {
		fmt.Fprintf(&b, ", ETA %s", eta)
	}
	return b.String()
}

// Progress extracts a percentage from a raw or parsed line.
func Progress(raw string) (int, bool) {
	clean := ansiEscape.ReplaceAllString(raw, "")

	if matches := summary.FindAllStringSubmatch(clean, -1); len(matches) > 0 {
		if p := matches[len(matches)-1][3]; p != "" {
			return clampPercent(p)
		}
	}

	matches := barePercent.FindAllStringSubmatch(clean, -1)
	if len(matches) == 0 {
		return 0, false
	}
	return clampPercent(matches[len(matches)-1][1])
}

func clampPercent(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if n > 100 {
		n = 100
	}
	return n, true
}

// lastRedraw keeps the last non-empty carriage-return segment of a chunk
func lastRedraw(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' })
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}
	return ""
}

// ScanLines is a bufio.SplitFunc that ends a token at either '\n' or '\r',
// so progress redraws are delivered as they happen. A trailing partial line
// is held back until its terminator arrives or the stream ends.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
