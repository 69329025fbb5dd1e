package rustysynth

import (
	"math"
)

// EventKind is an event tag that should be used to differentiate between
// different event types. See Event docs for more info.
type EventKind int

const (
	// EventUnknown is a sentinel value.
	// You should never receive an event of this kind.
	EventUnknown EventKind = iota

	// EventMessage is emitted every time a channel message is dispatched
	// to the synthesizer.
	//
	// Use Event.MessageEventData to get the event data.
	EventMessage

	// EventLoop is emitted when playback wraps around to the loop anchor,
	// either through an explicit loop end marker or by reaching the end
	// of the sequence with looping enabled.
	//
	// Use Event.LoopEventData to get the anchor time.
	EventLoop

	// EventEnd is emitted once when playback reaches the end of the
	// sequence with looping disabled.
	EventEnd
)

// Event holds a single playback event data.
// This object is an argument to the Sequencer.SetEventHandler function.
//
// To handle the event correctly, you must first check its kind.
// Every event has a Time value: the sequence time in seconds at which
// the event fired.
type Event struct {
	Kind EventKind

	// Channel is the MIDI channel of an EventMessage event (0-15).
	// It is -1 for channel-independent events.
	Channel int

	// Time is the playback position in seconds when the event fired.
	// For EventLoop this is the position before the jump.
	Time float64

	value uint64
}

// MessageEventData returns the event data if e.Kind=EventMessage.
// The return values are: command, data1, data2.
func (e Event) MessageEventData() (command, data1, data2 uint8) {
	return uint8(e.value), uint8(e.value >> 8), uint8(e.value >> 16)
}

// LoopEventData returns the event data if e.Kind=EventLoop.
// The return value is the anchor time the playback resumed at.
func (e Event) LoopEventData() float64 {
	return math.Float64frombits(e.value)
}
