// Package handlers provides the chat session handler served over Telnet.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/zoneroute/internal/frontend/telnet"
	"github.com/cory-johannsen/zoneroute/internal/observability"
	"github.com/cory-johannsen/zoneroute/internal/travel/lookup"
)

// Prompt is written before each command.
const Prompt = "route> "

// maxListedZones caps the names printed by the zones command.
const maxListedZones = 40

const welcomeBanner = "\r\n" + telnet.Bold + telnet.BrightCyan + "  Zone Route Planner" + telnet.Reset + "\r\n\r\n" +
	"  Type " + telnet.Green + "zone <to> [from]" + telnet.Reset + " to find a route.\r\n" +
	"  Type " + telnet.Green + "help" + telnet.Reset + " for all commands.\r\n\r\n"

// ChatHandler implements telnet.SessionHandler and answers route commands
// for a connected client.
type ChatHandler struct {
	planner  *lookup.Planner
	registry *Registry
	logger   *zap.Logger
}

// NewChatHandler creates a ChatHandler over planner.
//
// Precondition: planner and logger must be non-nil.
// Postcondition: Returns a ChatHandler ready to handle sessions, or an error
// if the command registry cannot be built.
func NewChatHandler(planner *lookup.Planner, logger *zap.Logger) (*ChatHandler, error) {
	registry, err := NewRegistry(BuiltinCommands())
	if err != nil {
		return nil, fmt.Errorf("building chat registry: %w", err)
	}
	return &ChatHandler{planner: planner, registry: registry, logger: logger}, nil
}

// HandleSession implements telnet.SessionHandler. It shows the banner and
// processes commands until the client quits or disconnects.
//
// Postcondition: Returns nil on clean quit, or an error if the session ended abnormally.
func (h *ChatHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	addr := conn.RemoteAddr().String()

	if err := conn.Write([]byte(welcomeBanner)); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Server shutting down. Goodbye!"))
			return ctx.Err()
		default:
		}

		if err := conn.WritePrompt(telnet.Colorize(telnet.BrightWhite, Prompt)); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}

		line, err := conn.ReadLine()
		if errors.Is(err, telnet.ErrLineTooLong) {
			if err := conn.WriteLine(telnet.Colorize(telnet.Red, "Input too long.")); err != nil {
				return fmt.Errorf("writing error: %w", err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		quit, err := h.Dispatch(conn, line)
		if err != nil {
			return err
		}
		if quit {
			h.logger.Info("client quit",
				zap.String("remote_addr", addr),
				zap.Duration("session_duration", time.Since(start)),
			)
			return nil
		}
	}
}

// Dispatch runs one input line. It reports whether the client asked to quit.
func (h *ChatHandler) Dispatch(conn *telnet.Conn, line string) (bool, error) {
	parsed, err := Parse(line)
	if err != nil {
		return false, conn.WriteLine(telnet.Colorize(telnet.Red, "Unbalanced quotes. Wrap names with spaces in double quotes."))
	}
	if parsed.Command == "" {
		return false, nil
	}

	cmd, ok := h.registry.Resolve(parsed.Command)
	if !ok {
		return false, conn.WriteLine(telnet.Colorf(telnet.Red, "Unknown command: %s. Type 'help' for available commands.", parsed.Command))
	}

	switch cmd.Name {
	case CmdZone:
		return false, h.handleZone(conn, cmd, parsed.Args)
	case CmdZones:
		return false, h.handleZones(conn, parsed.Args)
	case CmdHelp:
		return false, h.showHelp(conn)
	case CmdQuit:
		_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye!"))
		return true, nil
	}
	return false, nil
}

// handleZone answers zone <to> [from].
func (h *ChatHandler) handleZone(conn *telnet.Conn, cmd *Command, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: "+cmd.Usage))
	}
	req := lookup.Request{To: args[0]}
	if len(args) == 2 {
		req.From = args[1]
	}

	res, err := h.planner.Lookup(req)
	if err != nil {
		if lookup.Status(err) == observability.StatusError {
			h.logger.Error("chat lookup failed", zap.Error(err))
		}
		return conn.WriteLine(telnet.Colorize(telnet.Red, lookup.Message(err)))
	}
	return conn.WriteText(res.Text)
}

// handleZones answers zones [prefix].
func (h *ChatHandler) handleZones(conn *telnet.Conn, args []string) error {
	prefix := strings.Join(args, " ")
	names := h.planner.Zones(prefix)
	if len(names) == 0 {
		return conn.WriteLine(telnet.Colorf(telnet.Red, "No zones start with '%s'.", prefix))
	}

	shown := names
	if len(shown) > maxListedZones {
		shown = shown[:maxListedZones]
	}
	text := strings.Join(shown, ", ")
	if extra := len(names) - len(shown); extra > 0 {
		text += fmt.Sprintf(" ... and %d more", extra)
	}
	return conn.WriteLine(text)
}

func (h *ChatHandler) showHelp(conn *telnet.Conn) error {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "Available commands:"))
	b.WriteString("\r\n")
	for _, cmd := range h.registry.Commands() {
		fmt.Fprintf(&b, "  %s  %s", telnet.Colorf(telnet.Green, "%-18s", cmd.Usage), cmd.Help)
		if len(cmd.Aliases) > 0 {
			fmt.Fprintf(&b, " (also: %s)", strings.Join(cmd.Aliases, ", "))
		}
		b.WriteString("\r\n")
	}
	return conn.Write([]byte(b.String()))
}
