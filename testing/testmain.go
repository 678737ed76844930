// Package testing provides utilities for writing tests against a simulated
// machine.
package testing

import (
	"flag"
	"log/slog"
	"os"
	"testing"

	"github.com/clktmr/naomi/holly"
	"github.com/clktmr/naomi/holly/sim"
	"github.com/clktmr/naomi/holly/ta"
	"github.com/clktmr/naomi/holly/video"
)

var logLevel = flag.String("naomi.log", "", "log level of the holly packages: debug, info, warn or error")

// TestMain should be used as TestMain for tests using a [Machine]. It routes
// the package logs to stderr if -naomi.log is given.
func TestMain(m *testing.M) {
	flag.Parse()

	if *logLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
			panic(err)
		}
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		holly.SetLogger(slog.New(h))
	}

	os.Exit(m.Run())
}

// Machine is a simulated board with video and the tile accelerator set up.
type Machine struct {
	*sim.Machine
	Display *video.Display
	TA      *ta.TA
}

// NewMachine boots a simulated machine in mode. Everything is shut down when
// the test finishes.
func NewMachine(t testing.TB, mode video.Mode, depth video.ColorDepth) *Machine {
	t.Helper()

	m := &Machine{Machine: sim.New()}
	dev := m.Device()

	var err error
	m.Display, err = video.Init(dev, mode, depth)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Display.Close)

	m.TA, err = ta.New(dev, m.Display, m.Display, ta.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.TA.Close)

	return m
}
