package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/recall/internal/core/domain"
)

// excerptRunes is the longest source excerpt shown under an answer.
const excerptRunes = 160

type entryKind int

const (
	entryQuestion entryKind = iota
	entryAnswer
	entryInfo
	entrySuccess
	entryWarning
	entryError
)

type entry struct {
	kind    entryKind
	text    string
	sources []domain.Source
}

// transcript is the scrollback of questions, answers and notices.
type transcript struct {
	entries []entry
}

func (t *transcript) add(kind entryKind, text string) {
	t.entries = append(t.entries, entry{kind: kind, text: text})
}

func (t *transcript) addAnswer(answer *domain.Answer) {
	t.entries = append(t.entries, entry{kind: entryAnswer, text: answer.Answer, sources: answer.Sources})
}

func (t *transcript) clear() {
	t.entries = nil
}

func (t *transcript) len() int {
	return len(t.entries)
}

// render lays the transcript out for the given width.
func (t *transcript) render(s *styles.Styles, width int) string {
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width)

	blocks := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		blocks = append(blocks, renderEntry(s, wrap, e))
	}
	return strings.Join(blocks, "\n\n")
}

func renderEntry(s *styles.Styles, wrap lipgloss.Style, e entry) string {
	switch e.kind {
	case entryQuestion:
		return wrap.Render(s.Question.Render("› " + e.text))
	case entrySuccess:
		return wrap.Render(s.Success.Render(e.text))
	case entryWarning:
		return wrap.Render(s.Warning.Render(e.text))
	case entryError:
		return wrap.Render(s.Error.Render(e.text))
	case entryInfo:
		return wrap.Render(s.Muted.Render(e.text))
	}

	lines := []string{wrap.Render(s.Answer.Render(e.text))}
	for i, src := range e.sources {
		score := s.Score.Render(fmt.Sprintf("%.3f", src.Score))
		line := fmt.Sprintf("[%d] %s %s", i+1, score, s.Muted.Render(excerpt(src.Text)))
		lines = append(lines, wrap.Render(s.Source.Render(line)))
	}
	return strings.Join(lines, "\n")
}

// excerpt flattens whitespace and truncates text to excerptRunes.
func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= excerptRunes {
		return text
	}
	return string(runes[:excerptRunes-1]) + "…"
}
