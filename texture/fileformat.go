package texture

import (
	"compress/zlib"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/sigurn/crc8"
)

var magic = [4]byte{'N', 'T', 'E', 'X'}

const version = 1

type header struct {
	Magic       [4]byte
	Version     uint8
	Dim         uint16
	PaletteSize uint16
	Checksum    uint8
}

var texCRC8 = crc8.MakeTable(crc8.Params{
	Poly:   0x07,
	Init:   0x00,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x00,
	Check:  0xF4,
	Name:   "CRC-8",
})

func checksum(pix, palette []byte) uint8 {
	csum := crc8.Init(texCRC8)
	csum = crc8.Update(csum, pix, texCRC8)
	csum = crc8.Update(csum, palette, texCRC8)
	return crc8.Complete(csum, texCRC8)
}

func encodePalette(palette color.Palette) []byte {
	buf := make([]byte, 0, 4*len(palette))
	for _, c := range palette {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		buf = append(buf, n.R, n.G, n.B, n.A)
	}
	return buf
}

func Load(r io.Reader) (*Texture, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var hdr header
	err = binary.Read(zr, binary.BigEndian, &hdr)
	if err != nil {
		return nil, err
	}
	if hdr.Magic != magic || hdr.Version != version {
		return nil, ErrFormat
	}

	dim := int(hdr.Dim)
	palette := make(color.Palette, hdr.PaletteSize)
	if err := check(dim, dim, palette); err != nil {
		return nil, err
	}

	pix := make([]byte, dim*dim)
	if _, err = io.ReadFull(zr, pix); err != nil {
		return nil, err
	}
	pal := make([]byte, 4*len(palette))
	if _, err = io.ReadFull(zr, pal); err != nil {
		return nil, err
	}
	if checksum(pix, pal) != hdr.Checksum {
		return nil, ErrChecksum
	}

	for i := range palette {
		palette[i] = color.NRGBA{pal[4*i], pal[4*i+1], pal[4*i+2], pal[4*i+3]}
	}
	return &Texture{&image.Paletted{
		Pix:     pix,
		Stride:  dim,
		Rect:    image.Rect(0, 0, dim, dim),
		Palette: palette,
	}}, nil
}

func (t *Texture) Store(w io.Writer) error {
	if err := check(t.Bounds().Dx(), t.Bounds().Dy(), t.Palette); err != nil {
		return err
	}
	if t.Stride != t.Dim() {
		return errors.New("texture: is subimage")
	}

	pal := encodePalette(t.Palette)
	hdr := header{
		Magic:       magic,
		Version:     version,
		Dim:         uint16(t.Dim()),
		PaletteSize: uint16(len(t.Palette)),
		Checksum:    checksum(t.Pix, pal),
	}

	zw := zlib.NewWriter(w)
	defer zw.Close()
	err := binary.Write(zw, binary.BigEndian, hdr)
	if err != nil {
		return err
	}

	_, err = zw.Write(t.Pix)
	if err != nil {
		return err
	}

	_, err = zw.Write(pal)
	return err
}
