package midifile

import (
	"fmt"
)

// Sequence is an immutable, time-ordered list of MIDI-derived messages.
// Every message carries an absolute time offset in seconds; the offsets
// are non-decreasing by index.
//
// A Sequence never changes after construction, so it can be shared
// (read-only) by any number of sequencers at the same time.
type Sequence struct {
	messages []Message
	times    []float64
}

// NewSequence pairs messages 1:1 with their absolute times in seconds.
// The times must be non-negative and non-decreasing.
// Both slices are copied, so the caller may reuse them afterwards.
func NewSequence(times []float64, messages []Message) (*Sequence, error) {
	if len(times) != len(messages) {
		return nil, &SequenceError{
			Message: fmt.Sprintf("got %d messages, but %d times", len(messages), len(times)),
		}
	}
	for i, t := range times {
		if t < 0 {
			return nil, &SequenceError{Message: "message time is negative", Index: i}
		}
		if i > 0 && t < times[i-1] {
			return nil, &SequenceError{Message: "message times must be non-decreasing", Index: i}
		}
	}

	seq := &Sequence{
		messages: make([]Message, len(messages)),
		times:    make([]float64, len(times)),
	}
	copy(seq.messages, messages)
	copy(seq.times, times)
	return seq, nil
}

// Len returns the number of messages in the sequence.
func (s *Sequence) Len() int { return len(s.messages) }

// Message returns the i-th message.
func (s *Sequence) Message(i int) Message { return s.messages[i] }

// Time returns the absolute time of the i-th message in seconds.
func (s *Sequence) Time(i int) float64 { return s.times[i] }

// Duration returns the time of the last message.
// An empty sequence has a duration of 0.
func (s *Sequence) Duration() float64 {
	if len(s.times) == 0 {
		return 0
	}
	return s.times[len(s.times)-1]
}

type SequenceError struct {
	Message string

	Index int
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("%s (index=%d)", e.Message, e.Index)
}

// MessageKind is a tag that discriminates the Message variants.
type MessageKind uint8

const (
	// MessageChannel is a voice or control message destined for one
	// synthesizer channel.
	MessageChannel MessageKind = iota

	// MessageLoopStart marks the position playback resumes at when looping.
	// If a sequence contains several markers, the most recent one seen
	// before the jump wins.
	MessageLoopStart

	// MessageLoopEnd makes playback jump back to the most recent loop
	// start when loop mode is enabled. It is ignored otherwise.
	MessageLoopEnd

	// MessageIgnored is consumed by the sequencer without any effect.
	MessageIgnored
)

// Message is a single discriminated playback event.
// The channel/command/data fields are meaningful for MessageChannel only.
type Message struct {
	Kind MessageKind

	// Channel is the MIDI channel, 0-15.
	Channel uint8

	// Command is the status byte high nibble (0x80..0xE0).
	Command uint8

	Data1 uint8
	Data2 uint8
}

// ChannelMessage builds a channel voice/control message from a raw status
// byte and its data bytes.
func ChannelMessage(status, data1, data2 byte) Message {
	return Message{
		Kind:    MessageChannel,
		Channel: status & 0x0f,
		Command: status & 0xf0,
		Data1:   data1,
		Data2:   data2,
	}
}

// LoopStartMessage builds a loop start marker.
func LoopStartMessage() Message { return Message{Kind: MessageLoopStart} }

// LoopEndMessage builds a loop end marker.
func LoopEndMessage() Message { return Message{Kind: MessageLoopEnd} }
