package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/hermes/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"in_marker", "${na", 4, "na", 2, 4},
		{"after_paren", "${f(na", 6, "na", 4, 6},
		{"after_comma", "${f(a, na", 9, "na", 7, 9},
		{"underscore", "${random_s", 10, "random_s", 2, 10},
		{"mid_word", "${hostname}", 5, "hostname", 2, 10},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"empty_at_boundary", "${", 2, "", 2, 2},
		{"after_plus", "a + ", 4, "", 4, 4},
		{"cursor_clamped", "ab", 9, "ab", 0, 2},
		{"unicode", "${héllo", 8, "héllo", 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInMarker(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		want  bool
	}{
		{"${na", 2, true},
		{"${f(a, b", 8, true},
		{"${a} + na", 7, false},
		{"${a} + ${b", 10, true},
		{"plain", 3, false},
		{"$ {x", 3, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		if got := inMarker(tt.input, tt.pos); got != tt.want {
			t.Errorf("inMarker(%q, %d) = %v, want %v", tt.input, tt.pos, got, tt.want)
		}
	}
}

func TestByteOffset(t *testing.T) {
	tests := []struct {
		s     string
		runes int
		want  int
	}{
		{"abc", 0, 0},
		{"abc", 2, 2},
		{"abc", 3, 3},
		{"héllo", 2, 3},
		{"héllo", 9, 6},
	}

	for _, tt := range tests {
		if got := byteOffset(tt.s, tt.runes); got != tt.want {
			t.Errorf("byteOffset(%q, %d) = %d, want %d", tt.s, tt.runes, got, tt.want)
		}
	}
}

func TestNames(t *testing.T) {
	reg := lang.NewRegistry(0)
	reg.AddVariable("zeta", lang.Int(1))
	reg.AddVariable("alpha", lang.Int(2))
	reg.AddVariable("alpha", lang.Int(3))
	reg.AddFunction(lang.FuncHostname, lang.CallableFunc(nil))

	got := names(reg)

	if !slices.IsSorted(got) {
		t.Errorf("expected sorted names, got %v", got)
	}

	for _, want := range []string{"alpha", "zeta", lang.FuncHostname, lang.FuncRandomStr} {
		if n := countOf(got, want); n != 1 {
			t.Errorf("expected %q exactly once, got %d in %v", want, n, got)
		}
	}

	if vars := variableNames(reg); !slices.Equal(vars, []string{"alpha", "zeta"}) {
		t.Errorf("unexpected variable names %v", vars)
	}
}

func TestCandidates(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		name  string
		mode  inputMode
		input string
		start int
		want  []string
	}{
		{"template_outside_marker", modeTemplate, "na", 0, nil},
		{"template_in_marker", modeTemplate, "${na", 2, names(m.reg)},
		{"ctrl_first_word", modeCtrl, "se", 0, ctrlCommands},
		{"ctrl_set_name", modeCtrl, "set na", 4, variableNames(m.reg)},
		{"ctrl_unset_name", modeCtrl, "unset na", 6, variableNames(m.reg)},
		{"ctrl_set_template", modeCtrl, "set x ${na", 8, names(m.reg)},
		{"ctrl_other_args", modeCtrl, "vars na", 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.mode = tt.mode
			if got := m.candidates(tt.input, tt.start); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	m := newTestModel(t)
	typeText(t, &m, "${na")

	if len(m.matches) == 0 {
		t.Fatal("expected matches")
	}

	bar := renderCandidateBar(m.matches, -1, false, 80, m.isFunction)
	if bar == "" {
		t.Error("expected non-empty candidate bar")
	}

	if got := renderCandidateBar(nil, -1, false, 80, m.isFunction); got != "" {
		t.Errorf("expected empty bar without matches, got %q", got)
	}

	if got := renderCandidateBar(m.matches, -1, false, 0, m.isFunction); got != "" {
		t.Errorf("expected empty bar without width, got %q", got)
	}
}

func countOf(s []string, v string) int {
	n := 0

	for _, x := range s {
		if x == v {
			n++
		}
	}

	return n
}
