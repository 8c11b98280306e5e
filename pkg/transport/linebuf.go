package transport

import (
	"bytes"

	"github.com/golang/glog"
)

// DefaultMaxLineLen is the size of the receive buffer on the device.
const DefaultMaxLineLen = 1024

// LineBuffer accumulates bytes and splits them into newline terminated lines.
// Lines longer than the limit are discarded up to the next newline.
type LineBuffer struct {
	max        int
	buf        []byte
	discarding bool
	dropped    int
}

// NewLineBuffer creates a LineBuffer, DefaultMaxLineLen is used if max
// is not positive.
func NewLineBuffer(max int) *LineBuffer {
	if max <= 0 {
		max = DefaultMaxLineLen
	}
	return &LineBuffer{max: max, buf: make([]byte, 0, max)}
}

// Feed appends data and calls fn with every completed line, without the
// trailing newline. The line is only valid during the call.
// Feed stops at the first error returned by fn, the remaining data is lost.
func (b *LineBuffer) Feed(data []byte, fn func(line []byte) error) error {
	for len(data) > 0 {
		pos := bytes.IndexByte(data, '\n')
		chunk := data
		if pos >= 0 {
			chunk = data[:pos]
			data = data[pos+1:]
		} else {
			data = nil
		}
		if !b.discarding && len(b.buf)+len(chunk) > b.max {
			b.discarding, b.dropped = true, len(b.buf)
			b.buf = b.buf[:0]
		}
		if b.discarding {
			b.dropped += len(chunk)
		} else {
			b.buf = append(b.buf, chunk...)
		}
		if pos < 0 {
			break
		}
		if b.discarding {
			glog.V(2).Infof("drop over-long line (%d+ bytes)", b.dropped)
			b.discarding, b.dropped = false, 0
			continue
		}
		err := fn(b.buf)
		b.buf = b.buf[:0]
		if err != nil {
			return err
		}
	}
	return nil
}

// Pending returns the number of buffered bytes of the incomplete line.
func (b *LineBuffer) Pending() int {
	return len(b.buf)
}

// Reset drops the incomplete line.
func (b *LineBuffer) Reset() {
	b.buf = b.buf[:0]
	b.discarding, b.dropped = false, 0
}
