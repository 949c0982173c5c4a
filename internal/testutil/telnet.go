// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/cory-johannsen/zoneroute/internal/frontend/telnet"
)

// TelnetClient is a simple Telnet test client for integration testing.
type TelnetClient struct {
	conn    net.Conn
	pending string
	t       *testing.T
}

// NewTelnetClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}

	t.Cleanup(func() {
		conn.Close()
	})

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return &TelnetClient{conn: conn, t: t}
}

// ReadUntil reads until substr appears or timeout elapses. It returns the
// text up to and including the match with IAC sequences and ANSI codes
// removed. Text after the match is kept for the next call.
//
// Precondition: substr must be non-empty.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	buf := c.pending
	tmp := make([]byte, 1024)
	for {
		if idx := strings.Index(buf, substr); idx >= 0 {
			end := idx + len(substr)
			c.pending = buf[end:]
			return buf[:end]
		}
		n, err := c.conn.Read(tmp)
		if n > 0 {
			buf += telnet.StripANSI(string(telnet.FilterIAC(tmp[:n])))
		}
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, buf, err)
		}
	}
}

// Send writes a line of text to the server, appending \r\n.
//
// Precondition: text should not contain trailing newline characters.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Command sends text and returns the output up to the next prompt.
func (c *TelnetClient) Command(text, prompt string, timeout time.Duration) string {
	c.t.Helper()
	c.Send(text)
	return strings.TrimSuffix(c.ReadUntil(prompt, timeout), prompt)
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
