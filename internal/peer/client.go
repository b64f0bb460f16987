// Package peer is the controller side of the bridge protocol. It drives
// an armbridge process through its standard streams.
package peer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/san-kum/armbridge/internal/bridge"
)

const (
	// ReadyLine is printed by the bridge once it is about to step.
	ReadyLine = "READY TO RUN"

	DefaultJoints  = 2
	DefaultMuscles = 18
)

var (
	ErrNotReady = errors.New("peer: bridge exited before it was ready")
	ErrClosed   = errors.New("peer: client closed")
)

// Frame is one exchange's worth of telemetry.
type Frame struct {
	Joints  []float64
	Muscles []float64
}

// Client sends control vectors and collects telemetry frames. Incoming
// lines are told apart by their field count; lines matching neither
// width are ignored. A width of 0 marks a stream the bridge does not
// emit.
type Client struct {
	Joints  int
	Muscles int
	Logger  *slog.Logger

	w      io.Writer
	r      *bufio.Reader
	cmd    *exec.Cmd
	stdin  io.Closer
	closed bool
}

// New returns a client speaking over w and r.
func New(w io.Writer, r io.Reader) *Client {
	return &Client{
		Joints:  DefaultJoints,
		Muscles: DefaultMuscles,
		Logger:  slog.New(slog.DiscardHandler),
		w:       w,
		r:       bufio.NewReader(r),
	}
}

// Expect sizes the client for the frames a bridge configuration emits.
func (c *Client) Expect(s bridge.Shape) {
	c.Joints = len(s.Coordinates)
	c.Muscles = s.Muscles
}

// Start launches name with args and connects to its standard streams.
// The child's stderr is forwarded to stderr when non-nil.
func Start(ctx context.Context, stderr io.Writer, name string, args ...string) (*Client, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("peer: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("peer: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("peer: start %s: %w", name, err)
	}
	c := New(stdin, stdout)
	c.cmd = cmd
	c.stdin = stdin
	return c, nil
}

// WaitReady consumes output until the bridge reports it is ready.
func (c *Client) WaitReady() error {
	for {
		line, err := c.r.ReadString('\n')
		if strings.Contains(line, ReadyLine) {
			c.Logger.Debug("bridge ready")
			return nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrNotReady
			}
			return fmt.Errorf("peer: wait ready: %w", err)
		}
	}
}

// Send writes one control line.
func (c *Client) Send(u []float64) error {
	if c.closed {
		return ErrClosed
	}
	if _, err := io.WriteString(c.w, bridge.FormatControl(u)); err != nil {
		return fmt.Errorf("peer: send: %w", err)
	}
	c.Logger.Debug("sent", "control", u)
	return nil
}

// Receive reads lines until every enabled stream has delivered a frame.
// On io.EOF the returned frame holds whatever arrived.
func (c *Client) Receive() (Frame, error) {
	var f Frame
	for !c.complete(f) {
		line, err := c.r.ReadString('\n')
		if line != "" {
			c.classify(&f, line)
		}
		if err != nil {
			if c.complete(f) {
				return f, nil
			}
			return f, err
		}
	}
	return f, nil
}

func (c *Client) complete(f Frame) bool {
	return (c.Joints == 0 || f.Joints != nil) && (c.Muscles == 0 || f.Muscles != nil)
}

// classify files a line under the first unfilled stream of its width.
// Coordinates are emitted before muscles, so equal widths still sort.
func (c *Client) classify(f *Frame, line string) {
	tokens := bridge.Fields(line)
	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		values[i] = bridge.ParseToken(tok)
	}
	switch n := len(values); {
	case c.Joints > 0 && n == c.Joints && f.Joints == nil:
		f.Joints = values
	case c.Muscles > 0 && n == c.Muscles:
		f.Muscles = values
	default:
		c.Logger.Debug("ignored line", "fields", n)
	}
}

// Exchange sends u and waits for the telemetry of the next eligible step.
func (c *Client) Exchange(u []float64) (Frame, error) {
	if err := c.Send(u); err != nil {
		return Frame{}, err
	}
	return c.Receive()
}

// Close ends the session. For a started process it closes the child's
// stdin, which halts the bridge, and waits for it to exit.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.cmd == nil {
		return nil
	}
	if err := c.stdin.Close(); err != nil {
		return err
	}
	// Drain remaining output so the child never blocks on a full pipe.
	io.Copy(io.Discard, c.r)
	return c.cmd.Wait()
}
