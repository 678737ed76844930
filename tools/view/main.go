// Package view runs a simulated machine in a window. It renders a test scene
// through the tile accelerator and shows the log on screen.
package view

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/clktmr/naomi/drivers/console"
	"github.com/clktmr/naomi/holly"
	"github.com/clktmr/naomi/holly/sim"
	"github.com/clktmr/naomi/holly/ta"
	"github.com/clktmr/naomi/holly/video"
	"github.com/clktmr/naomi/texture"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	flags = flag.NewFlagSet("view", flag.ExitOnError)

	lowres  = flags.Bool("lowres", false, "use 320x240 instead of 640x480")
	depth   = flags.Int("depth", 16, "framebuffer bits per pixel: 16 or 32")
	scale   = flags.Int("scale", 1, "window scale factor")
	texfile = flags.String("texture", "", "texture file to upload and show")
	verbose = flags.Bool("v", false, "log debug messages")
)

const usageString = `Simulated display viewer.

Usage: %s [flags]

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "view")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])
	if flags.NArg() != 0 {
		flags.Usage()
		os.Exit(1)
	}

	mode := video.HighRes
	if *lowres {
		mode = video.LowRes
	}
	cd := video.RGB1555
	switch *depth {
	case 16:
	case 32:
		cd = video.RGB0888
	default:
		log.Fatalln("unsupported depth:", *depth)
	}

	con := console.NewConsole()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(io.MultiWriter(os.Stderr, con), &slog.HandlerOptions{Level: level})
	holly.SetLogger(slog.New(h))

	g, err := newGame(mode, cd, con)
	if err != nil {
		log.Fatalln(err)
	}
	defer g.close()

	if *texfile != "" {
		if err := g.loadTexture(*texfile); err != nil {
			log.Fatalln(err)
		}
	}

	ebiten.SetWindowTitle("naomi")
	ebiten.SetWindowSize(mode.Width**scale, mode.Height**scale)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalln(err)
	}
}

func newGame(mode video.Mode, depth video.ColorDepth, con *console.Console) (*game, error) {
	g := &game{m: sim.New(), con: con}
	dev := g.m.Device()

	var err error
	if g.d, err = video.Init(dev, mode, depth); err != nil {
		return nil, err
	}
	if g.p, err = ta.New(dev, g.d, g.d, ta.DefaultConfig()); err != nil {
		g.d.Close()
		return nil, err
	}
	g.d.SetOverlay(con.Draw)

	// The beam runs at its own pace, frames wait for it like on hardware.
	ctx, cancel := context.WithCancel(context.Background())
	g.stop = cancel
	go g.m.Run(ctx, time.Second/60)
	return g, nil
}

func (g *game) loadTexture(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	tex, err := texture.Load(f)
	if err != nil {
		return err
	}
	if err := tex.Upload(g.p, g.p.TextureBase(), 0); err != nil {
		return err
	}
	g.tex = tex
	slog.Info("texture loaded", "name", name, "dim", tex.Dim(), "colors", len(tex.Palette))
	return nil
}

func (g *game) close() {
	g.stop()
	g.p.Close()
	g.d.Close()
}
