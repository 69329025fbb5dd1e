package rustysynth

import (
	"math"

	"github.com/PoHsuanLai/rustysynth/midifile"
)

// Sequencer plays a parsed MIDI sequence through a Synthesizer, handling
// block-aligned event dispatch, loop regions and playback speed.
//
// A Sequencer is not safe for concurrent use. Drive it from a single
// goroutine (usually the audio callback) or serialize the calls yourself.
// The bound sequence is never mutated and may be shared between sequencers.
type Sequencer struct {
	synth Synthesizer

	speed float64

	seq      *midifile.Sequence
	playLoop bool

	// blockWrote counts the frames already produced inside the current
	// synthesizer block. Events are dispatched only when it reaches the
	// block size, i.e. on block boundaries.
	blockWrote int

	currentTime float64
	msgIndex    int
	loopIndex   int

	endFired     bool
	eventHandler func(e Event)
}

// NewSequencer creates a sequencer that renders through synth.
// The sequencer owns the synthesizer from now on.
func NewSequencer(synth Synthesizer) *Sequencer {
	return &Sequencer{
		synth:      synth,
		speed:      1.0,
		blockWrote: synth.BlockSize(),
	}
}

// SetEventHandler installs an event listener to the sequencer.
//
// f is called during Render, on the rendering goroutine.
// See the Event docs for the kinds of events produced.
func (s *Sequencer) SetEventHandler(f func(e Event)) {
	s.eventHandler = f
}

// Play binds seq and starts playback from its beginning.
//
// The synthesizer is reset so that no voices from a previous sequence
// bleed in, and the current block is marked as fully consumed so the very
// next Render call dispatches the events due at time 0 right away.
func (s *Sequencer) Play(seq *midifile.Sequence, loop bool) {
	s.seq = seq
	s.playLoop = loop

	s.blockWrote = s.synth.BlockSize()

	s.currentTime = 0
	s.msgIndex = 0
	s.loopIndex = 0
	s.endFired = false

	s.synth.Reset()
}

// Stop detaches the bound sequence and resets the synthesizer.
// Further Render calls produce the synthesizer's idle output.
func (s *Sequencer) Stop() {
	s.seq = nil
	s.synth.Reset()
}

// Render fills both buffers with the next len(left) frames of audio.
//
// Frames are produced in chunks bounded by the synthesizer block size;
// at every block boundary all due events are dispatched before the block
// is rendered. Chunking is transparent: any series of Render calls gives
// the same audio and cursor state as one call of the combined length.
//
// Panics if the two buffers have different lengths.
func (s *Sequencer) Render(left, right []float32) {
	if len(left) != len(right) {
		panic("the left and right output buffers must be the same length")
	}

	blockSize := s.synth.BlockSize()
	wrote := 0
	for wrote < len(left) {
		if s.blockWrote == blockSize {
			s.processEvents()
			s.blockWrote = 0
			s.currentTime += s.speed * float64(blockSize) / float64(s.synth.SampleRate())
		}

		srcRem := blockSize - s.blockWrote
		dstRem := len(left) - wrote
		rem := min(srcRem, dstRem)

		s.synth.Render(left[wrote:wrote+rem], right[wrote:wrote+rem])

		s.blockWrote += rem
		wrote += rem
	}
}

func (s *Sequencer) processEvents() {
	if s.seq == nil || s.seq.Len() == 0 {
		return
	}

	wrapped := false
	for s.msgIndex < s.seq.Len() {
		if s.seq.Time(s.msgIndex) > s.currentTime {
			return
		}
		msg := s.seq.Message(s.msgIndex)

		switch msg.Kind {
		case midifile.MessageChannel:
			s.synth.ProcessMIDIMessage(int32(msg.Channel), int32(msg.Command), int32(msg.Data1), int32(msg.Data2))
			s.emitMessageEvent(msg)

		case midifile.MessageLoopStart:
			if s.playLoop {
				s.loopIndex = s.msgIndex
			}

		case midifile.MessageLoopEnd:
			if s.playLoop {
				if wrapped {
					// A second jump in the same pass means the loop
					// region has zero length; resume at the next block.
					return
				}
				wrapped = true
				// A wraparound restarts dispatch evaluation from the
				// anchor index rather than falling through.
				s.wrapAround()
				continue
			}
		}
		s.msgIndex++
	}

	// Reaching the end of the sequence acts as an implicit loop end,
	// independent of any explicit marker.
	if s.playLoop {
		s.wrapAround()
		return
	}

	if !s.endFired {
		s.endFired = true
		if s.eventHandler != nil {
			s.eventHandler(Event{
				Kind:    EventEnd,
				Channel: -1,
				Time:    s.currentTime,
			})
		}
	}
}

// wrapAround rewinds the cursor to the loop anchor and releases all
// sounding notes without cutting their release tails.
func (s *Sequencer) wrapAround() {
	jumpTime := s.currentTime

	s.currentTime = s.seq.Time(s.loopIndex)
	s.msgIndex = s.loopIndex
	s.synth.NoteOffAll(false)

	if s.eventHandler != nil {
		s.eventHandler(Event{
			Kind:    EventLoop,
			Channel: -1,
			Time:    jumpTime,
			value:   math.Float64bits(s.currentTime),
		})
	}
}

func (s *Sequencer) emitMessageEvent(msg midifile.Message) {
	if s.eventHandler == nil {
		return
	}
	s.eventHandler(Event{
		Kind:    EventMessage,
		Channel: int(msg.Channel),
		Time:    s.currentTime,
		value:   uint64(msg.Command) | uint64(msg.Data1)<<8 | uint64(msg.Data2)<<16,
	})
}

// Position returns the current playback position in seconds.
func (s *Sequencer) Position() float64 {
	return s.currentTime
}

// EndOfSequence reports whether playback reached the end of the bound
// sequence, or no sequence is bound at all.
// It never becomes true while looping is enabled: the wraparound keeps
// the cursor away from the terminal state.
func (s *Sequencer) EndOfSequence() bool {
	if s.seq == nil {
		return true
	}
	return s.msgIndex == s.seq.Len()
}

// Speed returns the playback speed multiplier. The default is 1.
func (s *Sequencer) Speed() float64 {
	return s.speed
}

// SetSpeed sets the playback speed multiplier.
//
// A value of 0 freezes event dispatch while the synthesizer keeps
// rendering (silence or sustained voices). Panics if v is negative.
func (s *Sequencer) SetSpeed(v float64) {
	if v < 0 {
		panic("the playback speed must be a non-negative value")
	}
	s.speed = v
}

// Synthesizer returns the synthesizer the sequencer renders through.
func (s *Sequencer) Synthesizer() Synthesizer {
	return s.synth
}

// Sequence returns the currently bound sequence, or nil when idle.
func (s *Sequencer) Sequence() *midifile.Sequence {
	return s.seq
}
