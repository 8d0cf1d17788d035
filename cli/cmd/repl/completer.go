package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/hermes/lang"
)

// ctrlCommands are the available command-mode commands.
var ctrlCommands = []string{
	"help", "vars", "funcs", "set", "unset", "edit", "clear", "quit",
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier surrounding the byte offset cursor and
// its byte boundaries within input. The word is empty when the cursor is
// not touching an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inMarker reports whether the byte offset pos lies inside a "${" marker
// that has not been closed before pos.
func inMarker(input string, pos int) bool {
	pos = min(max(pos, 0), len(input))

	open := strings.LastIndex(input[:pos], "${")
	if open < 0 {
		return false
	}

	return !strings.Contains(input[open+2:pos], "}")
}

// byteOffset converts a rune index within s to a byte offset.
func byteOffset(s string, runes int) int {
	for i := range s {
		if runes == 0 {
			return i
		}

		runes--
	}

	return len(s)
}

// names returns the sorted, distinct variable and function names of reg.
func names(reg *lang.Registry) []string {
	var all []string

	for v := range reg.Variables() {
		all = append(all, v.Name)
	}

	all = append(all, slices.Collect(reg.Functions())...)
	slices.Sort(all)

	return slices.Compact(all)
}

func functionNames(reg *lang.Registry) []string {
	all := slices.Collect(reg.Functions())
	slices.Sort(all)

	return slices.Compact(all)
}

func variableNames(reg *lang.Registry) []string {
	var all []string

	for v := range reg.Variables() {
		all = append(all, v.Name)
	}

	slices.Sort(all)

	return slices.Compact(all)
}

// candidates returns the completion candidates for a word starting at byte
// offset start.
func (m model) candidates(input string, start int) []string {
	if inMarker(input, start) {
		return names(m.reg)
	}

	if m.mode != modeCtrl {
		return nil
	}

	fields := strings.Fields(input[:start])

	switch {
	case len(fields) == 0:
		return ctrlCommands

	case len(fields) == 1 && (fields[0] == "set" || fields[0] == "unset"):
		return variableNames(m.reg)
	}

	return nil
}

// computeMatches ranks the candidates for the word under the cursor,
// best first, and returns the word's byte boundaries.
func (m model) computeMatches() (matches fuzzy.Matches, start, end int) {
	input := m.input.Value()
	cursor := byteOffset(input, m.input.Position())

	word, start, end := wordBounds(input, cursor)
	if word == "" {
		return nil, start, end
	}

	candidates := m.candidates(input, start)
	if len(candidates) == 0 {
		return nil, start, end
	}

	return fuzzy.Find(word, candidates), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if function {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
