package bridge

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestReaderSource(t *testing.T) {
	src := NewReaderSource(strings.NewReader("1 2\r\n\nlast"))

	want := []string{"1 2", "", "last"}
	for i, w := range want {
		line, ok, err := src.Next()
		if err != nil || !ok {
			t.Fatalf("line %d: %v %v", i, ok, err)
		}
		if line != w {
			t.Errorf("line %d = %q, want %q", i, line, w)
		}
	}
	if _, _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestLatestSource(t *testing.T) {
	pr, pw := io.Pipe()
	src := NewLatestSource(pr)
	defer src.Close()

	if _, ok, err := src.Next(); ok || err != nil {
		t.Fatalf("expected no data yet, got %v %v", ok, err)
	}

	if _, err := io.WriteString(pw, "1 2 3 4\n"); err != nil {
		t.Fatal(err)
	}
	line := waitLine(t, src)
	if line != "1 2 3 4" {
		t.Errorf("got %q", line)
	}
	if _, ok, _ := src.Next(); ok {
		t.Error("line must be delivered once")
	}

	pw.Close()
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, _, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("EOF never observed")
		}
		time.Sleep(time.Millisecond)
	}
}

func waitLine(t *testing.T, src LineSource) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		line, ok, err := src.Next()
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			return line
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no line received")
	return ""
}
