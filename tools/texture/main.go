// Package texture implements the image to texture file converter.
package texture

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/clktmr/naomi/holly/ta"
	"github.com/clktmr/naomi/texture"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

var (
	flags = flag.NewFlagSet("texture", flag.ExitOnError)

	size    = flags.Int("size", 0, "texture width and height, a power of two (default: fit the image)")
	colors  = flags.Int("colors", 256, "number of palette colors")
	dither  = flags.Bool("dither", false, "enable Floyd-Steinberg error diffusion")
	outfile = flags.String("o", "", "output file (default: <image>.ntex)")

	imagefile string
)

const usageString = `Image to texture converter.

Usage: %s [flags] <image>

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "texture")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() == 1 {
		imagefile = flags.Arg(0)
	} else {
		flags.Usage()
		os.Exit(1)
	}

	r, err := os.Open(imagefile)
	if err != nil {
		log.Fatalln(err)
	}
	src, _, err := image.Decode(r)
	r.Close()
	if err != nil {
		log.Fatalln(err)
	}

	dim := *size
	if dim == 0 {
		b := src.Bounds()
		dim = fitDim(max(b.Dx(), b.Dy()))
	}

	tex, err := convert(src, dim, *colors, *dither)
	if err != nil {
		log.Fatalln(err)
	}

	if *outfile == "" {
		*outfile = strings.TrimSuffix(imagefile, filepath.Ext(imagefile)) + ".ntex"
	}
	w, err := os.Create(*outfile)
	if err != nil {
		log.Fatalln(err)
	}
	defer w.Close()

	if err = tex.Store(w); err != nil {
		log.Fatalln(err)
	}
}

// fitDim returns the smallest valid texture size holding n pixels.
func fitDim(n int) int {
	dim := ta.MinTextureDim
	for dim < n && dim < ta.MaxTextureDim {
		dim <<= 1
	}
	return dim
}

// convert scales src to dim*dim pixels and reduces it to a palette of at
// most ncolors.
func convert(src image.Image, dim, ncolors int, dither bool) (*texture.Texture, error) {
	if ncolors < 1 || ncolors > 256 {
		return nil, texture.ErrPalette
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, dim, dim))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, ncolors), scaled)

	tex, err := texture.New(dim, p)
	if err != nil {
		return nil, err
	}
	var d draw.Drawer = draw.Src
	if dither {
		d = draw.FloydSteinberg
	}
	d.Draw(tex.Paletted, tex.Bounds(), scaled, image.Point{})
	return tex, nil
}
