package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PoHsuanLai/rustysynth"
	"github.com/PoHsuanLai/rustysynth/midifile"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	meltysynth "github.com/sinshu/go-meltysynth/meltysynth"
)

// This simple CLI tool plays the specified MIDI file through a SoundFont
// using Ebitengine audio player.

func main() {
	loop := flag.Bool("loop", false, "loop the playback (RPG Maker loop markers are honored)")
	flag.Parse()
	flag.Usage = func() {
		fmt.Printf("usage: go run ./cmd/ebitengine-example path/to/soundfont.sf2 path/to/music.mid")
		flag.PrintDefaults()
	}
	if len(flag.Args()) < 2 {
		panic("expected at least 2 command-line arguments")
	}
	soundFontName := flag.Args()[0]
	midiName := flag.Args()[1]

	const sampleRate = 44100

	sf, err := os.Open(soundFontName)
	if err != nil {
		panic(fmt.Errorf("open SoundFont file: %v", err))
	}
	soundFont, err := meltysynth.NewSoundFont(sf)
	sf.Close()
	if err != nil {
		panic(fmt.Errorf("parsing SoundFont file: %v", err))
	}

	settings := meltysynth.NewSynthesizerSettings(sampleRate)
	synth, err := meltysynth.NewSynthesizer(soundFont, settings)
	if err != nil {
		panic(fmt.Errorf("creating synthesizer: %v", err))
	}

	f, err := os.Open(midiName)
	if err != nil {
		panic(fmt.Errorf("open MIDI file: %v", err))
	}
	sequence, err := midifile.ReadFrom(f, midifile.ReadSMFConfig{
		LoopType: midifile.LoopRPGMaker,
	})
	f.Close()
	if err != nil {
		panic(fmt.Errorf("parsing MIDI file: %v", err))
	}

	// Create a usable PCM stream.
	stream := rustysynth.NewStream(rustysynth.NewMeltySynthesizer(synth, settings))
	if err := stream.Load(sequence, rustysynth.LoadSequenceConfig{Loop: *loop}); err != nil {
		panic(err)
	}

	// Create a sound player using the Ebitengine audio context.
	// You can have multiple players, but only one audio context.
	// See Ebitengine docs to learn more.
	audioContext := audio.NewContext(sampleRate)
	player, err := audioContext.NewPlayer(stream)
	if err != nil {
		panic(err)
	}

	g := &game{
		player:   player,
		stream:   stream,
		filename: midiName,
		paused:   true,
	}

	if err := ebiten.RunGame(g); err != nil {
		panic(err)
	}
}

type game struct {
	player *audio.Player
	stream *rustysynth.Stream

	filename string
	paused   bool
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		if g.player.IsPlaying() {
			g.player.Pause()
		} else {
			g.player.Play()
		}
	}

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.paused {
		ebitenutil.DebugPrint(screen, "Paused... press SPACE")
	} else {
		pos := g.stream.Sequencer().Position()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Playing %s... (%.1fs)", g.filename, pos))
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return 640, 480
}
