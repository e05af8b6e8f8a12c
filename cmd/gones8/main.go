// Command gones8 loads an iNES ROM and runs it.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/pkg/errors"

	"github.com/mwbrasher/gones8/console"
	"github.com/mwbrasher/gones8/mappers"
	"github.com/mwbrasher/gones8/rom"
)

const sampleRate = 44100

var (
	romPath = flag.String("rom", "", "path to the .nes ROM to run")
	debug   = flag.Bool("debug", false, "drop into the text monitor instead of running immediately")
	mute    = flag.Bool("mute", false, "disable audio output")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if *romPath == "" {
		return errors.New("-rom is required")
	}

	r, err := rom.New(*romPath)
	if err != nil {
		return errors.Wrapf(err, "loading ROM %q", *romPath)
	}

	m, err := mappers.Get(r)
	if err != nil {
		return errors.Wrap(err, "selecting mapper")
	}

	audio.NewContext(sampleRate)

	nes := console.New(m)
	nes.Mute(*mute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *debug {
		nes.BIOS(ctx)
		return nil
	}

	go nes.Run(ctx)

	if err := ebiten.RunGame(nes); err != nil {
		return errors.Wrap(err, "running game loop")
	}

	return nil
}
