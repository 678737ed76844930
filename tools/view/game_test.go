package view

import (
	"image"
	"testing"

	"github.com/clktmr/naomi/drivers/console"
	"github.com/clktmr/naomi/holly/ta"
	"github.com/clktmr/naomi/holly/video"
	naomitesting "github.com/clktmr/naomi/testing"
)

func TestMain(m *testing.M) { naomitesting.TestMain(m) }

func TestDecode(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 2, 1))

	decode(dst, []byte{0x00, 0x7c, 0x1f, 0x00}, video.RGB1555)
	if got := dst.Pix; got[0] != 0xff || got[2] != 0 || got[4] != 0 || got[6] != 0xff || got[7] != 0xff {
		t.Fatalf("RGB1555: % x", got)
	}

	decode(dst, []byte{0x30, 0x20, 0x10, 0x00, 0x01, 0x02, 0x03, 0x00}, video.RGB0888)
	want := []byte{0x10, 0x20, 0x30, 0xff, 0x03, 0x02, 0x01, 0xff}
	if string(dst.Pix) != string(want) {
		t.Fatalf("RGB0888: % x, expected % x", dst.Pix, want)
	}
}

func TestStep(t *testing.T) {
	g, err := newGame(video.HighRes, video.RGB0888, console.NewConsole())
	if err != nil {
		t.Fatal(err)
	}
	defer g.close()

	for range 3 {
		if err := g.step(); err != nil {
			t.Fatal(err)
		}
		if !g.p.Waiting().Empty() {
			t.Fatal("lists still waiting:", g.p.Waiting())
		}
		if !g.p.Populated().Empty() {
			t.Fatal("lists not consumed by render:", g.p.Populated())
		}
	}

	front := g.d.Front()
	want := video.RGB0888.Model().Convert(sweep(g.frame))
	if got := front.At(320, 240); got != want {
		t.Fatalf("background %v, expected %v", got, want)
	}
	if s := g.m.Stats(); s.Renders != 3 || s.EndOfLists != 3*int(ta.ListCount) {
		t.Fatalf("stats %+v", s)
	}
}
