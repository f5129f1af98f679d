package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// ErrRecorderClosed is returned when recording after Close
var ErrRecorderClosed = errors.New("recorder closed")

// Frames buffered between the game loop and the writer
const recorderBuffer = 64

// Recorder writes telemetry frames as zstd compressed JSON lines. Frames
// are written on a goroutine of its own so the game loop never waits on
// the disk; when the writer falls behind, frames are dropped and counted.
type Recorder struct {
	mu      sync.Mutex
	closed  bool
	frames  chan Frame
	done    chan struct{}
	dropped int

	out io.WriteCloser
	zw  *zstd.Encoder
	err error // first write error
}

// OpenRecorder creates (or truncates) a recording at path.
func OpenRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	r, err := NewRecorder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// NewRecorder records onto out, which is closed with the recorder.
func NewRecorder(out io.WriteCloser) (*Recorder, error) {
	zw, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	r := &Recorder{
		frames: make(chan Frame, recorderBuffer),
		done:   make(chan struct{}),
		out:    out,
		zw:     zw,
	}
	go r.writeLoop()
	return r, nil
}

func (r *Recorder) writeLoop() {
	defer close(r.done)
	enc := json.NewEncoder(r.zw)
	for f := range r.frames {
		if r.err != nil {
			continue
		}
		if err := enc.Encode(f); err != nil {
			r.err = fmt.Errorf("write frame %d: %w", f.Frame, err)
		}
	}
}

// Record queues a frame for writing.
func (r *Recorder) Record(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRecorderClosed
	}
	select {
	case r.frames <- f:
	default:
		r.dropped++
	}
	return nil
}

// Close flushes queued frames and closes the recording.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.frames)
	r.mu.Unlock()

	<-r.done
	if r.dropped > 0 {
		logger.Warn("recorder dropped frames", zap.Int("dropped", r.dropped))
	}

	err := r.err
	if cerr := r.zw.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("flush recording: %w", cerr)
	}
	if cerr := r.out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close recording: %w", cerr)
	}
	return err
}

// ReadRecording decodes every frame of a recording.
func ReadRecording(in io.Reader) ([]Frame, error) {
	zr, err := zstd.NewReader(in, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer zr.Close()

	var frames []Frame
	dec := json.NewDecoder(zr)
	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, fmt.Errorf("read frame %d: %w", len(frames), err)
		}
		frames = append(frames, f)
	}
}
