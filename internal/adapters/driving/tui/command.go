package tui

import "strings"

// commandKind identifies what a prompt line asks for.
type commandKind int

const (
	commandNone commandKind = iota
	commandAsk
	commandNote
	commandURL
	commandHelp
	commandClear
	commandQuit
	commandUnknown
)

// command is a parsed prompt line.
type command struct {
	kind commandKind
	arg  string
}

// parseCommand interprets a prompt line. Lines that do not start with a
// slash are questions.
func parseCommand(line string) command {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{kind: commandNone}
	}
	if !strings.HasPrefix(line, "/") {
		return command{kind: commandAsk, arg: line}
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/note":
		return command{kind: commandNote, arg: arg}
	case "/url":
		return command{kind: commandURL, arg: arg}
	case "/help", "/?":
		return command{kind: commandHelp}
	case "/clear":
		return command{kind: commandClear}
	case "/quit", "/exit":
		return command{kind: commandQuit}
	default:
		return command{kind: commandUnknown, arg: name}
	}
}

const helpText = `Type a question and press enter to ask it.
  /note <text>   store a note
  /url <url>     fetch and store a web page
  /clear         clear the transcript
  /quit          exit`
