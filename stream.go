package rustysynth

import (
	"errors"
	"io"
	"math"

	"github.com/PoHsuanLai/rustysynth/midifile"
)

// bytesPerFrame is one stereo frame of 16-bit samples.
const bytesPerFrame = 4

// Stream adapts a Sequencer to io.Reader, producing 16-bit little endian
// interleaved stereo PCM bytes; this is what the ebiten/audio package
// expects. Use Stream as an io.Reader argument for audio.NewPlayer().
type Stream struct {
	seq *Sequencer

	left  []float32
	right []float32

	settings streamSettings

	bytePos    int
	tailRemain int
}

type streamSettings struct {
	volumeScaling float64
	loop          bool
	sequence      *midifile.Sequence
	tailFrames    int
}

// NewStream creates a stream that renders through synth.
func NewStream(synth Synthesizer) *Stream {
	return &Stream{
		seq: NewSequencer(synth),
		settings: streamSettings{
			volumeScaling: 1.0,
		},
	}
}

// LoadSequenceConfig configures the Stream.Load call.
type LoadSequenceConfig struct {
	// Loop enables loop-region playback. When enabled, Read never
	// returns EOF.
	Loop bool

	// TailSeconds extends the stream past the end of the sequence so
	// that release and reverb tails can decay before EOF.
	//
	// A zero value means one second of tail.
	// Use a negative value for no tail at all.
	TailSeconds float64
}

// Load binds a sequence to the stream and prepares playback from its
// beginning. The sequence is read-only to the stream and may be shared.
func (s *Stream) Load(sequence *midifile.Sequence, config LoadSequenceConfig) error {
	if sequence == nil {
		return errors.New("nil sequence")
	}

	tail := config.TailSeconds
	if tail == 0 {
		tail = 1.0
	}
	if tail < 0 {
		tail = 0
	}

	s.settings.loop = config.Loop
	s.settings.sequence = sequence
	s.settings.tailFrames = int(math.Round(tail * float64(s.seq.synth.SampleRate())))

	s.rewind()
	return nil
}

// SetVolume adjusts the global volume scaling for the stream.
// The default value is 1; a value of 0 disables the sound.
// The value is clamped in [0, 1].
func (s *Stream) SetVolume(v float64) {
	s.settings.volumeScaling = clamp(v, 0, 1)
}

// SetEventHandler installs an event listener to the underlying sequencer.
func (s *Stream) SetEventHandler(f func(e Event)) {
	s.seq.SetEventHandler(f)
}

// Sequencer exposes the underlying sequencer, e.g. for position queries
// or speed control. The stream and the caller must not use it from
// different goroutines at the same time.
func (s *Stream) Sequencer() *Sequencer {
	return s.seq
}

// StreamInfo contains fixed properties of a stream.
type StreamInfo struct {
	// BytesPerBlock tells how many PCM bytes one synthesizer block
	// produces. Read calls with a smaller buffer return n=0.
	BytesPerBlock uint

	// SampleRate is the output sample rate in frames per second.
	SampleRate uint
}

// GetInfo returns stream-related info. See StreamInfo for more details.
func (s *Stream) GetInfo() StreamInfo {
	return StreamInfo{
		BytesPerBlock: uint(s.seq.synth.BlockSize() * bytesPerFrame),
		SampleRate:    uint(s.seq.synth.SampleRate()),
	}
}

// Read puts the next PCM bytes into the provided slice.
//
// Only whole frames are produced: n is always a multiple of 4
// (2 channels, 2 bytes per sample). When the sequence has finished and
// the configured tail has decayed, io.EOF is returned. A looping stream
// never reaches EOF.
func (s *Stream) Read(b []byte) (int, error) {
	if s.settings.sequence == nil {
		return 0, io.EOF
	}

	numFrames := len(b) / bytesPerFrame

	ended := !s.settings.loop && s.seq.EndOfSequence()
	if ended {
		if s.tailRemain == 0 {
			return 0, io.EOF
		}
		numFrames = min(numFrames, s.tailRemain)
	}
	if numFrames == 0 {
		return 0, nil
	}

	if cap(s.left) < numFrames {
		s.left = make([]float32, numFrames)
		s.right = make([]float32, numFrames)
	}
	left := s.left[:numFrames]
	right := s.right[:numFrames]
	s.seq.Render(left, right)

	v := s.settings.volumeScaling * 32767
	for i := 0; i < numFrames; i++ {
		l := clamp(int32(float64(left[i])*v), -32768, 32767)
		r := clamp(int32(float64(right[i])*v), -32768, 32767)
		putPCM(b[i*bytesPerFrame:], uint16(l), uint16(r))
	}

	if ended {
		s.tailRemain -= numFrames
	}

	written := numFrames * bytesPerFrame
	s.bytePos += written
	return written, nil
}

// Seek partially implements io.Seeker.
//
// You can use it for two things:
//  1. (0, SeekStart) for rewind
//  2. (0, SeekCurrent) to get the byte pos inside the stream
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		if offset == 0 {
			s.Rewind()
			return 0, nil
		}

	case io.SeekCurrent:
		if offset == 0 {
			return int64(s.bytePos), nil
		}
	}

	return 0, errors.New("unsupported Seek call")
}

// Rewind restarts playback of the loaded sequence from the beginning.
// Doing a rewind is relatively cheap.
func (s *Stream) Rewind() {
	s.rewind()
}

func (s *Stream) rewind() {
	s.seq.Play(s.settings.sequence, s.settings.loop)
	s.bytePos = 0
	s.tailRemain = s.settings.tailFrames
}
