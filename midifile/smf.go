package midifile

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// LoopType selects the loop marker convention applied by ReadFrom.
//
// MIDI has no standard way to express a loop region, but several
// conventions exist that encode the markers as control changes.
type LoopType int

const (
	// LoopNone produces no loop markers. Loop-enabled playback still
	// wraps at the end of the sequence, back to its beginning.
	LoopNone LoopType = iota

	// LoopRPGMaker treats control change #111 as the loop start.
	// The loop end is the end of the sequence.
	LoopRPGMaker

	// LoopHMI treats control change #110 as the loop start
	// and #111 as the loop end.
	LoopHMI

	// LoopTouhou treats control change #2 as the loop start
	// and #4 as the loop end.
	LoopTouhou
)

// ReadSMFConfig configures ReadFrom.
type ReadSMFConfig struct {
	// LoopType selects which control changes become loop markers.
	// The zero value is LoopNone.
	LoopType LoopType
}

type timedMessage struct {
	time float64
	msg  Message
}

// ReadFrom parses a Standard MIDI File and flattens it into a Sequence.
//
// All tracks are merged into a single time-ordered message list with the
// tempo map already applied, so every message carries its absolute time
// in seconds. Meta and system messages have no effect on playback and are
// dropped; control changes matching the configured loop convention are
// replaced by loop markers instead of being forwarded to the synthesizer.
func ReadFrom(r io.Reader, config ReadSMFConfig) (*Sequence, error) {
	var events []timedMessage

	rd := smf.ReadTracksFrom(r)
	rd.Do(func(te smf.TrackEvent) {
		raw := te.Message.Bytes()
		if len(raw) == 0 {
			return
		}
		status := raw[0]
		if status < 0x80 || status >= 0xf0 {
			return
		}

		var data1, data2 byte
		if len(raw) > 1 {
			data1 = raw[1]
		}
		if len(raw) > 2 {
			data2 = raw[2]
		}

		msg := ChannelMessage(status, data1, data2)
		if msg.Command == 0xb0 {
			if marker, ok := loopMarker(config.LoopType, data1); ok {
				msg = marker
			}
		}

		events = append(events, timedMessage{
			time: float64(te.AbsMicroSeconds) / 1e6,
			msg:  msg,
		})
	})
	if err := rd.Error(); err != nil {
		return nil, fmt.Errorf("read SMF: %w", err)
	}

	// The reader walks the file track by track; a stable sort merges the
	// tracks into global time order while keeping the original order for
	// simultaneous messages.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].time < events[j].time
	})

	times := make([]float64, len(events))
	messages := make([]Message, len(events))
	for i, e := range events {
		times[i] = e.time
		messages[i] = e.msg
	}
	return NewSequence(times, messages)
}

func loopMarker(loopType LoopType, controller byte) (Message, bool) {
	switch loopType {
	case LoopRPGMaker:
		if controller == 111 {
			return LoopStartMessage(), true
		}
	case LoopHMI:
		switch controller {
		case 110:
			return LoopStartMessage(), true
		case 111:
			return LoopEndMessage(), true
		}
	case LoopTouhou:
		switch controller {
		case 2:
			return LoopStartMessage(), true
		case 4:
			return LoopEndMessage(), true
		}
	}
	return Message{}, false
}
