package bridge

import (
	"io"
	"strconv"
)

const (
	CoordinateSeparator = " "
	MuscleSeparator     = "  "
)

// FrameWriter assembles one line per frame and hands it to the
// underlying writer in a single Write call, so a reader never sees a
// partial frame.
type FrameWriter struct {
	w   io.Writer
	sep string
	buf []byte
}

func NewFrameWriter(w io.Writer, sep string) *FrameWriter {
	return &FrameWriter{w: w, sep: sep}
}

func (f *FrameWriter) Write(values []float64) error {
	f.buf = f.buf[:0]
	f.buf = f.appendValues(f.buf, values)
	f.buf = append(f.buf, '\n')
	_, err := f.w.Write(f.buf)
	return err
}

// WriteStamped writes t followed by values.
func (f *FrameWriter) WriteStamped(t float64, values []float64) error {
	f.buf = f.buf[:0]
	f.buf = strconv.AppendFloat(f.buf, t, 'g', -1, 64)
	if len(values) > 0 {
		f.buf = append(f.buf, f.sep...)
	}
	f.buf = f.appendValues(f.buf, values)
	f.buf = append(f.buf, '\n')
	_, err := f.w.Write(f.buf)
	return err
}

func (f *FrameWriter) appendValues(buf []byte, values []float64) []byte {
	for i, v := range values {
		if i > 0 {
			buf = append(buf, f.sep...)
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return buf
}
