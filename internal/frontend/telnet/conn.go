package telnet

import (
	"bufio"
	"bytes"
	"errors"
	"net"
	"strings"
	"sync"
	"time"
)

// Telnet IAC (Interpret As Command) constants per RFC 854.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Sub-negotiation Begin
	SE   byte = 240 // Sub-negotiation End
	NOP  byte = 241
	GA   byte = 249 // Go Ahead

	OptSuppressGoAhead byte = 3
)

// DefaultMaxLineLength caps the bytes kept from one input line.
const DefaultMaxLineLength = 512

// ErrLineTooLong is returned by ReadLine when a line exceeds the limit. The
// whole line has been consumed, so the next ReadLine starts fresh.
var ErrLineTooLong = errors.New("telnet: line too long")

// Conn wraps a TCP connection with Telnet protocol handling.
// It filters IAC sequences from input and provides line-based reading.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
	maxLine      int
}

// NewConn wraps a raw TCP connection with Telnet protocol handling.
//
// Precondition: raw must be a valid, open network connection.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		maxLine:      DefaultMaxLineLength,
	}
}

// SetMaxLineLength changes the line limit. n <= 0 restores the default.
func (c *Conn) SetMaxLineLength(n int) {
	if n <= 0 {
		n = DefaultMaxLineLength
	}
	c.maxLine = n
}

// Negotiate asks the client to suppress go-ahead. Chat clients keep their
// own line editing and echo.
func (c *Conn) Negotiate() error {
	return c.Write([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads a single line of input, filtering Telnet IAC sequences.
// The returned line does not include the trailing \r\n.
//
// Postcondition: Returns the next line of text input, or an error (including
// io.EOF). A line longer than the limit is discarded up to its end and
// reported as ErrLineTooLong.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	overflow := false
	end := func() (string, error) {
		if overflow {
			return "", ErrLineTooLong
		}
		return line.String(), nil
	}
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}

		switch {
		case b == IAC:
			if err := c.skipCommand(); err != nil {
				return line.String(), err
			}
		case b == '\n':
			return end()
		case b == '\r':
			if next, err := c.reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			return end()
		case b < 32 && b != '\t':
			// control characters other than tab are dropped
		case overflow:
		case line.Len() >= c.maxLine:
			overflow = true
			line.Reset()
		default:
			line.WriteByte(b)
		}
	}
}

// skipCommand consumes the rest of an IAC sequence whose IAC byte was
// already read.
func (c *Conn) skipCommand() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}

	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err := c.reader.ReadByte()
		return err
	case SB:
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if b != IAC {
				continue
			}
			next, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if next == SE {
				return nil
			}
		}
	}
	return nil
}

// Write sends raw bytes to the client.
func (c *Conn) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(data)
	return err
}

// WriteLine sends a line of text followed by \r\n to the client.
//
// Precondition: text should not contain trailing newline characters.
func (c *Conn) WriteLine(text string) error {
	return c.Write([]byte(text + "\r\n"))
}

// WriteText sends multi-line text, converting each \n to \r\n and ending
// with a line break.
func (c *Conn) WriteText(text string) error {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return c.Write([]byte(strings.Join(lines, "\r\n") + "\r\n"))
}

// WritePrompt sends a prompt string without a trailing newline.
func (c *Conn) WritePrompt(prompt string) error {
	return c.Write([]byte(prompt))
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// FilterIAC removes Telnet IAC sequences from raw input bytes.
// An escaped IAC (IAC IAC) yields one literal 0xFF.
func FilterIAC(input []byte) []byte {
	result := make([]byte, 0, len(input))
	for i := 0; i < len(input); {
		if input[i] != IAC || i+1 >= len(input) {
			result = append(result, input[i])
			i++
			continue
		}

		switch input[i+1] {
		case WILL, WONT, DO, DONT:
			i += 3
		case SB:
			j := i + 2
			for j < len(input)-1 && !(input[j] == IAC && input[j+1] == SE) {
				j++
			}
			if j < len(input)-1 {
				j += 2
			}
			i = j
		case IAC:
			result = append(result, IAC)
			i += 2
		default:
			i += 2
		}
	}
	return result
}
