package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/clktmr/naomi/texture"
	"golang.org/x/image/colornames"
)

func TestFitDim(t *testing.T) {
	tests := []struct{ n, dim int }{
		{1, 8}, {8, 8}, {9, 16}, {300, 512}, {1024, 1024}, {5000, 1024},
	}
	for _, tc := range tests {
		if got := fitDim(tc.n); got != tc.dim {
			t.Errorf("fitDim(%d) = %d, expected %d", tc.n, got, tc.dim)
		}
	}
}

func quadrants() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	cs := []color.Color{colornames.Red, colornames.Lime, colornames.Blue, colornames.White}
	for y := range 40 {
		for x := range 40 {
			img.Set(x, y, cs[(y/20)*2+x/20])
		}
	}
	return img
}

func TestConvert(t *testing.T) {
	for _, dither := range []bool{false, true} {
		tex, err := convert(quadrants(), 16, 4, dither)
		if err != nil {
			t.Fatal(err)
		}
		if tex.Dim() != 16 {
			t.Fatal("dim", tex.Dim())
		}
		if len(tex.Palette) == 0 || len(tex.Palette) > 4 {
			t.Fatal("palette size", len(tex.Palette))
		}

		// Quadrant centers keep their color.
		for _, p := range []image.Point{{4, 4}, {12, 4}, {4, 12}, {12, 12}} {
			want := quadrants().At(p.X*40/16, p.Y*40/16)
			wr, wg, wb, _ := want.RGBA()
			gr, gg, gb, _ := tex.At(p.X, p.Y).RGBA()
			if wr>>8 != gr>>8 || wg>>8 != gg>>8 || wb>>8 != gb>>8 {
				t.Errorf("dither=%v %v: %v, expected %v", dither, p, tex.At(p.X, p.Y), want)
			}
		}

		var buf bytes.Buffer
		if err := tex.Store(&buf); err != nil {
			t.Fatal(err)
		}
		if _, err := texture.Load(&buf); err != nil {
			t.Fatal(err)
		}
	}
}

func TestConvertInvalid(t *testing.T) {
	if _, err := convert(quadrants(), 16, 0, false); !errors.Is(err, texture.ErrPalette) {
		t.Error("no colors:", err)
	}
	if _, err := convert(quadrants(), 12, 4, false); !errors.Is(err, texture.ErrSize) {
		t.Error("size 12:", err)
	}
}
