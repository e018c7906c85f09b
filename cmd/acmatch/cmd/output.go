package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/corey/acmatch/internal/app"
	"github.com/corey/acmatch/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

type outMode int

const (
	modeText outMode = iota
	modeCount
	modeJSON
	modeQuiet
)

// printer renders scan results for one matcher.
type printer struct {
	w        io.Writer
	matcher  ports.PatternMatcher
	color    bool
	showPath bool
	mode     outMode
}

// jsonMatch is one line of --json output.
type jsonMatch struct {
	Path string `json:"path,omitempty"`
	ports.Match
	Text string `json:"text"`
}

// result prints the matches for one input.
func (p *printer) result(path string, matches []ports.Match) {
	switch p.mode {
	case modeQuiet:
	case modeCount:
		fmt.Fprintln(p.w, formatCount(p.label(path), len(matches), p.color))
	case modeJSON:
		enc := json.NewEncoder(p.w)
		for _, m := range matches {
			enc.Encode(jsonMatch{Path: p.jsonPath(path), Match: m, Text: string(p.matcher.PatternText(m.PatternID))})
		}
	default:
		for _, m := range matches {
			fmt.Fprintln(p.w, formatMatch(p.label(path), m, p.matcher.PatternText(m.PatternID), p.color))
		}
	}
}

func (p *printer) label(path string) string {
	if !p.showPath {
		return ""
	}
	return displayPath(path)
}

// jsonPath is the path field of --json output. Stdin alone has none.
func (p *printer) jsonPath(path string) string {
	if path == app.StdinPath && !p.showPath {
		return ""
	}
	return displayPath(path)
}

// displayPath names stdin the way grep does.
func displayPath(path string) string {
	if path == app.StdinPath {
		return "(standard input)"
	}
	return path
}

// formatMatch renders one match grep-style:
//
//	file:start+length: text #id
func formatMatch(path string, m ports.Match, text []byte, useColor bool) string {
	var sb strings.Builder
	if path != "" {
		sb.WriteString(paint(path, colorCyan, useColor))
		sb.WriteByte(':')
	}
	fmt.Fprintf(&sb, "%d+%d: ", m.Start, m.Length)
	sb.WriteString(paint(displayText(text), colorBold, useColor))
	sb.WriteByte(' ')
	sb.WriteString(paint("#"+strconv.Itoa(m.PatternID), colorGray, useColor))
	return sb.String()
}

// formatCount renders a match count, prefixed by path when set.
func formatCount(path string, n int, useColor bool) string {
	if path == "" {
		return strconv.Itoa(n)
	}
	return paint(path, colorCyan, useColor) + ":" + strconv.Itoa(n)
}

// displayText prints text as is when it is printable UTF-8, quoted otherwise.
func displayText(text []byte) string {
	if utf8.Valid(text) && strings.IndexFunc(string(text), func(r rune) bool {
		return !unicode.IsPrint(r)
	}) < 0 {
		return string(text)
	}
	return strconv.Quote(string(text))
}

func paint(s, color string, useColor bool) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}
