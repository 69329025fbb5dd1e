package rustysynth

import (
	meltysynth "github.com/sinshu/go-meltysynth/meltysynth"
)

// MeltySynthesizer adapts a go-meltysynth SoundFont synthesizer to the
// Synthesizer interface.
type MeltySynthesizer struct {
	synth *meltysynth.Synthesizer

	blockSize  int
	sampleRate int
}

// NewMeltySynthesizer wraps synth. settings must be the settings object
// the synthesizer was created with; the block size and sample rate are
// taken from it.
func NewMeltySynthesizer(synth *meltysynth.Synthesizer, settings *meltysynth.SynthesizerSettings) *MeltySynthesizer {
	return &MeltySynthesizer{
		synth:      synth,
		blockSize:  int(settings.BlockSize),
		sampleRate: int(settings.SampleRate),
	}
}

func (s *MeltySynthesizer) Reset() {
	s.synth.Reset()
}

func (s *MeltySynthesizer) Render(left, right []float32) {
	s.synth.Render(left, right)
}

func (s *MeltySynthesizer) ProcessMIDIMessage(channel, command, data1, data2 int32) {
	s.synth.ProcessMidiMessage(channel, command, data1, data2)
}

func (s *MeltySynthesizer) NoteOffAll(force bool) {
	s.synth.NoteOffAll(force)
}

func (s *MeltySynthesizer) BlockSize() int {
	return s.blockSize
}

func (s *MeltySynthesizer) SampleRate() int {
	return s.sampleRate
}
