package models

import "strings"

// CommandType enumerates the report queries accepted over chat.
type CommandType string

const (
	CommandRevenue CommandType = "revenue"
	CommandCosts   CommandType = "costs"
	CommandProfit  CommandType = "profit"
	CommandOwners  CommandType = "owners"
	CommandBills   CommandType = "bills"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command is a parsed chat query such as "/revenue 2024-12".
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

var commandAliases = map[string]CommandType{
	"revenue": CommandRevenue,
	"sales":   CommandRevenue,
	"costs":   CommandCosts,
	"profit":  CommandProfit,
	"report":  CommandProfit,
	"owners":  CommandOwners,
	"shares":  CommandOwners,
	"bills":   CommandBills,
	"help":    CommandHelp,
	"start":   CommandHelp,
}

// ParseCommand derives a Command from a free-form text message. The leading
// slash is optional and matching is case-insensitive.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(strings.ToLower(message))
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
