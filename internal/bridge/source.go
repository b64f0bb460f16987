package bridge

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
)

// LineSource yields controller lines. Next reports ok=false when no new
// line is available yet; io.EOF means the controller is gone.
type LineSource interface {
	Next() (line string, ok bool, err error)
}

// ReaderSource blocks on the underlying reader until a full line
// arrives. Next may block the calling simulation step indefinitely.
type ReaderSource struct {
	r *bufio.Reader
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r)}
}

func (s *ReaderSource) Next() (string, bool, error) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		// A final unterminated line still counts.
		if errors.Is(err, io.EOF) && line != "" {
			return trimEOL(line), true, nil
		}
		return "", false, err
	}
	return trimEOL(line), true, nil
}

// LatestSource reads lines in the background and keeps only the most
// recent one. Next never blocks; lines that arrive between two calls are
// dropped except the last.
type LatestSource struct {
	mu     sync.Mutex
	line   string
	fresh  bool
	err    error
	closer io.Closer
}

func NewLatestSource(r io.Reader) *LatestSource {
	s := &LatestSource{}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	go s.read(r)
	return s
}

func (s *LatestSource) read(r io.Reader) {
	src := NewReaderSource(r)
	for {
		line, _, err := src.Next()
		s.mu.Lock()
		if err != nil {
			s.err = err
			s.mu.Unlock()
			return
		}
		s.line = line
		s.fresh = true
		s.mu.Unlock()
	}
}

func (s *LatestSource) Next() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fresh {
		s.fresh = false
		return s.line, true, nil
	}
	if s.err != nil {
		return "", false, s.err
	}
	return "", false, nil
}

// Close releases the underlying reader if it can be closed, which also
// ends the background read.
func (s *LatestSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}
