// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/recall/internal/core/domain"
)

// AnswerReceived carries the result of a question back to the model.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// IngestCompleted carries the result of a /note or /url command.
type IngestCompleted struct {
	// Label describes what was ingested, for the transcript.
	Label  string
	Result *domain.IngestResult
	Err    error
}

// ErrorOccurred signals that an error happened outside a request.
type ErrorOccurred struct {
	Err error
}
