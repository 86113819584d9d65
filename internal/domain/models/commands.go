package models

import "strings"

// CommandType enumerates the chat commands barbers can send.
type CommandType string

const (
	CommandProduction CommandType = "production"
	CommandTarget     CommandType = "target"
	CommandStats      CommandType = "stats"
	CommandRanking    CommandType = "ranking"
	CommandHelp       CommandType = "help"
	CommandUnknown    CommandType = "unknown"
)

// commandAliases maps accepted spellings to their command.
var commandAliases = map[string]CommandType{
	"production": CommandProduction,
	"producao":   CommandProduction,
	"prod":       CommandProduction,
	"target":     CommandTarget,
	"meta":       CommandTarget,
	"stats":      CommandStats,
	"resumo":     CommandStats,
	"ranking":    CommandRanking,
	"help":       CommandHelp,
	"ajuda":      CommandHelp,
}

// Command is a parsed instruction extracted from a chat message.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from free-form text. The first token selects the
// command (a leading slash is optional); the remaining tokens become Args.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(message)))
	if len(tokens) == 0 {
		return cmd
	}

	if t, ok := commandAliases[strings.TrimPrefix(tokens[0], "/")]; ok {
		cmd.Type = t
	}
	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}
	return cmd
}
