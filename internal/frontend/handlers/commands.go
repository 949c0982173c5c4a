package handlers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrUnterminatedQuote is returned by Parse for a line with an odd number of
// double quotes.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words. A double-quoted run is one argument.
	Args []string
}

// Parse splits a chat line into a command and arguments.
//
// Postcondition: Returns a ParseResult, with an empty Command for a blank
// line, or ErrUnterminatedQuote.
func Parse(line string) (ParseResult, error) {
	words, err := splitWords(line)
	if err != nil {
		return ParseResult{}, err
	}
	if len(words) == 0 {
		return ParseResult{}, nil
	}
	res := ParseResult{Command: strings.ToLower(words[0])}
	if len(words) > 1 {
		res.Args = words[1:]
	}
	return res, nil
}

// splitWords splits on whitespace outside double quotes. Quotes are removed;
// "" yields an empty argument.
func splitWords(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inQuote bool
		inWord  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			inWord = true
		case unicode.IsSpace(r) && !inQuote:
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

// Command describes one chat command.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Help    string
}

// Chat command names.
const (
	CmdZone  = "zone"
	CmdZones = "zones"
	CmdHelp  = "help"
	CmdQuit  = "quit"
)

// BuiltinCommands returns the chat commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: CmdZone, Aliases: []string{"!zone", "route"}, Usage: `zone <to> [from]`,
			Help: "Find the shortest route. Quote names with spaces."},
		{Name: CmdZones, Aliases: []string{"!zones"}, Usage: "zones [prefix]",
			Help: "List zone names."},
		{Name: CmdHelp, Aliases: []string{"!help", "?"}, Usage: "help",
			Help: "Show this help."},
		{Name: CmdQuit, Aliases: []string{"exit"}, Usage: "quit",
			Help: "Disconnect."},
	}
}

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	commands map[string]*Command // canonical name → command
	aliases  map[string]string   // alias → canonical name
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}

	for i := range cmds {
		cmd := &cmds[i]
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, exists := r.aliases[cmd.Name]; exists {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[cmd.Name] = cmd

		for _, alias := range cmd.Aliases {
			if _, exists := r.commands[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with a command name", alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, cmd.Name)
			}
			r.aliases[alias] = cmd.Name
		}
	}

	return r, nil
}

// Resolve looks up a command by name or alias.
func (r *Registry) Resolve(input string) (*Command, bool) {
	if cmd, ok := r.commands[input]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[input]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
