package rustysynth

import (
	"io"
	"testing"

	"github.com/PoHsuanLai/rustysynth/midifile"
)

func loadStream(t *testing.T, config LoadSequenceConfig) (*Stream, *fakeSynth) {
	t.Helper()
	synth := &fakeSynth{}
	stream := NewStream(synth)
	seq := mustSequence(t, []float64{0}, []midifile.Message{noteOn(60)})
	if err := stream.Load(seq, config); err != nil {
		t.Fatal(err)
	}
	return stream, synth
}

func TestStreamLoadNilSequence(t *testing.T) {
	stream := NewStream(&fakeSynth{})
	if err := stream.Load(nil, LoadSequenceConfig{}); err == nil {
		t.Fatal("expected an error for a nil sequence")
	}
}

func TestStreamReadPCM(t *testing.T) {
	stream, _ := loadStream(t, LoadSequenceConfig{TailSeconds: -1})

	b := make([]byte, 8*bytesPerFrame)
	n, err := stream.Read(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(b) {
		t.Fatalf("Read returned %d bytes, want %d", n, len(b))
	}

	// The fake synthesizer renders a constant 0.25/-0.25 stereo signal.
	const (
		wantLeft  = 8191  // 0.25 * 32767, truncated
		wantRight = -8191 // -0.25 * 32767, truncated
	)
	for i := 0; i < n; i += bytesPerFrame {
		left := int16(uint16(b[i]) | uint16(b[i+1])<<8)
		right := int16(uint16(b[i+2]) | uint16(b[i+3])<<8)
		if left != wantLeft || right != wantRight {
			t.Fatalf("frame %d = (%d, %d), want (%d, %d)", i/bytesPerFrame, left, right, wantLeft, wantRight)
		}
	}
}

func TestStreamVolume(t *testing.T) {
	stream, _ := loadStream(t, LoadSequenceConfig{TailSeconds: -1})
	stream.SetVolume(0)

	b := make([]byte, 4*bytesPerFrame)
	n, err := stream.Read(b)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if b[i] != 0 {
			t.Fatalf("byte %d = %d, want silence at volume 0", i, b[i])
		}
	}
}

func TestStreamEOFAfterTail(t *testing.T) {
	tail := 2 * blockDur // two blocks worth of decay
	stream, _ := loadStream(t, LoadSequenceConfig{TailSeconds: tail})

	// The single message sits at time 0, so the sequence is over after
	// the first read.
	b := make([]byte, testBlockSize*bytesPerFrame)
	if _, err := stream.Read(b); err != nil {
		t.Fatal(err)
	}

	tailBytes := 0
	for {
		n, err := stream.Read(b)
		tailBytes += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if n == 0 {
			t.Fatal("Read returned 0 bytes without EOF")
		}
	}

	if want := 2 * testBlockSize * bytesPerFrame; tailBytes != want {
		t.Errorf("decay tail was %d bytes, want %d", tailBytes, want)
	}
}

func TestStreamLoopNeverEOF(t *testing.T) {
	stream, _ := loadStream(t, LoadSequenceConfig{Loop: true})

	b := make([]byte, testBlockSize*bytesPerFrame)
	for i := 0; i < 50; i++ {
		n, err := stream.Read(b)
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if n != len(b) {
			t.Fatalf("read %d returned %d bytes, want %d", i, n, len(b))
		}
	}
}

func TestStreamSeek(t *testing.T) {
	stream, _ := loadStream(t, LoadSequenceConfig{})

	b := make([]byte, 3*testBlockSize*bytesPerFrame)
	if _, err := stream.Read(b); err != nil {
		t.Fatal(err)
	}

	pos, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if pos != int64(len(b)) {
		t.Errorf("Seek(0, SeekCurrent) = %d, want %d", pos, len(b))
	}

	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if got := stream.Sequencer().Position(); got != 0 {
		t.Errorf("position after rewind = %v, want 0", got)
	}
	pos, err = stream.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 0 {
		t.Errorf("byte position after rewind = %d, want 0", pos)
	}

	if _, err := stream.Seek(5, io.SeekStart); err == nil {
		t.Error("expected an error for an unsupported Seek call")
	}
}

func TestStreamRewindReplaysEvents(t *testing.T) {
	stream, synth := loadStream(t, LoadSequenceConfig{})

	b := make([]byte, testBlockSize*bytesPerFrame)
	if _, err := stream.Read(b); err != nil {
		t.Fatal(err)
	}
	stream.Rewind()
	if _, err := stream.Read(b); err != nil {
		t.Fatal(err)
	}

	if len(synth.messages) != 2 {
		t.Errorf("message dispatched %d times, want 2 (once per playback)", len(synth.messages))
	}
	// Load and Rewind both reset the synthesizer.
	if synth.resets != 2 {
		t.Errorf("synthesizer reset %d times, want 2", synth.resets)
	}
}

func TestStreamGetInfo(t *testing.T) {
	stream, _ := loadStream(t, LoadSequenceConfig{})

	info := stream.GetInfo()
	if want := uint(testBlockSize * bytesPerFrame); info.BytesPerBlock != want {
		t.Errorf("BytesPerBlock = %d, want %d", info.BytesPerBlock, want)
	}
	if info.SampleRate != testSampleRate {
		t.Errorf("SampleRate = %d, want %d", info.SampleRate, testSampleRate)
	}
}
