package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.False(t, bar.Busy())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		want    string
	}{
		{name: "ready", state: StateReady, want: "Ready"},
		{name: "ready with message", state: StateReady, message: "3 sources", want: "3 sources"},
		{name: "thinking", state: StateThinking, want: "Thinking..."},
		{name: "ingesting", state: StateIngesting, want: "Ingesting..."},
		{name: "error", state: StateError, message: "rate limited", want: "Error: rate limited"},
		{name: "error without message", state: StateError, want: "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)

			view := bar.View()
			assert.Contains(t, view, tt.want)
			assert.Contains(t, view, "enter: ask")
		})
	}
}

func TestBar_SetStateClearsMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")

	bar.SetState(StateThinking)

	assert.Empty(t, bar.Message())
	assert.True(t, bar.Busy())
}

func TestBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(5)

	assert.NotEmpty(t, bar.View())
}
