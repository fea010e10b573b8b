package coaching

import (
	"encoding/json"
	"strings"
)

// CommandComplete marks the session as finished; the client records it
// in the progress store.
const CommandComplete = "complete"

// Command is an optional machine-readable instruction the assistant may
// append as the last line of a reply: a JSON object with a "command"
// string and an optional "labels" string map.
type Command struct {
	Command string            `json:"command"`
	Labels  map[string]string `json:"labels,omitempty"`
}

// SplitCommand separates a trailing command block from assistant text.
// The grammar is strict: the last non-blank line must be a JSON object
// whose "command" field is a non-empty string. Anything else leaves the
// text untouched and returns a nil command.
func SplitCommand(text string) (string, *Command) {
	trimmed := strings.TrimRight(text, " \t\r\n")
	if trimmed == "" {
		return text, nil
	}

	lineStart := strings.LastIndexByte(trimmed, '\n') + 1
	last := strings.TrimSpace(trimmed[lineStart:])
	if !strings.HasPrefix(last, "{") || !strings.HasSuffix(last, "}") {
		return text, nil
	}

	var cmd Command
	if err := json.Unmarshal([]byte(last), &cmd); err != nil || cmd.Command == "" {
		return text, nil
	}

	rest := strings.TrimRight(trimmed[:lineStart], " \t\r\n")
	return rest, &cmd
}
