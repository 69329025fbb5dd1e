package rustysynth

// Synthesizer is the audio engine a Sequencer renders through.
//
// The engine produces audio in fixed-size blocks and only accepts state
// changes between blocks: it cannot splice a control change in the middle
// of a block. The sequencer therefore batches event dispatch to block
// boundaries instead of applying events at exact sample offsets.
type Synthesizer interface {
	// Reset silences all voices and clears the internal modulation
	// and envelope state.
	Reset()

	// Render produces the next len(left) frames of audio into the two
	// channel buffers. The sequencer never requests more than BlockSize
	// frames per call and never crosses a block boundary within a call.
	Render(left, right []float32)

	// ProcessMIDIMessage applies one channel voice/control event.
	// It affects subsequent Render calls only, never retroactively.
	ProcessMIDIMessage(channel, command, data1, data2 int32)

	// NoteOffAll stops all active voices. With force=false the voices
	// decay through their release envelopes; with force=true they are
	// silenced immediately.
	NoteOffAll(force bool)

	// BlockSize is the number of frames produced per render block.
	BlockSize() int

	// SampleRate is the output sample rate in frames per second.
	SampleRate() int
}
