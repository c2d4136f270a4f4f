// Package texture decodes image formats the standard image registry cannot
// sniff by magic number.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// ErrNotTGA is returned when data does not carry a supported TGA header.
var ErrNotTGA = errors.New("not a supported TGA image")

type tgaHeader struct {
	idLength      int
	imageType     byte
	width, height int
	bytesPerPixel int
	topToBottom   bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("%w: header too short", ErrNotTGA)
	}
	h := tgaHeader{
		idLength:      int(data[0]),
		imageType:     data[2],
		width:         int(data[12]) | int(data[13])<<8,
		height:        int(data[14]) | int(data[15])<<8,
		bytesPerPixel: int(data[16]) / 8,
		topToBottom:   data[17]&0x20 != 0,
	}
	if data[1] != 0 {
		return h, fmt.Errorf("%w: color-mapped", ErrNotTGA)
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return h, fmt.Errorf("%w: type %d", ErrNotTGA, h.imageType)
	}
	if data[16] != 24 && data[16] != 32 {
		return h, fmt.Errorf("%w: %d bits per pixel", ErrNotTGA, data[16])
	}
	if h.width == 0 || h.height == 0 {
		return h, fmt.Errorf("%w: empty image", ErrNotTGA)
	}
	return h, nil
}

// IsTGA reports whether data starts with a true-color TGA header this
// package can decode.
func IsTGA(data []byte) bool {
	_, err := parseTGAHeader(data)
	return err == nil
}

// DecodeTGA decodes uncompressed or RLE true-color TGA data with 24 or 32
// bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	d := &tgaDecoder{
		header: h,
		src:    data[offset:],
		img:    image.NewRGBA(image.Rect(0, 0, h.width, h.height)),
	}
	if h.imageType == TGATypeUncompressed {
		if len(d.src) < h.width*h.height*h.bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for d.pixel < h.width*h.height {
			d.put(d.read())
		}
	} else if err := d.decodeRLE(); err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	header tgaHeader
	src    []byte
	pos    int
	pixel  int
	img    *image.RGBA
}

// read returns the BGR(A) pixel at the cursor.
func (d *tgaDecoder) read() color.RGBA {
	p := d.src[d.pos:]
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.header.bytesPerPixel == 4 {
		c.A = p[3]
	}
	d.pos += d.header.bytesPerPixel
	return c
}

// put stores c at the next pixel, flipping bottom-up images.
func (d *tgaDecoder) put(c color.RGBA) {
	x := d.pixel % d.header.width
	y := d.pixel / d.header.width
	if !d.header.topToBottom {
		y = d.header.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
	d.pixel++
}

func (d *tgaDecoder) decodeRLE() error {
	total := d.header.width * d.header.height
	bpp := d.header.bytesPerPixel

	for d.pixel < total {
		if d.pos >= len(d.src) {
			return fmt.Errorf("TGA RLE data truncated at pixel %d", d.pixel)
		}
		packet := d.src[d.pos]
		d.pos++
		count := min(int(packet&0x7F)+1, total-d.pixel)

		if packet&0x80 != 0 {
			if d.pos+bpp > len(d.src) {
				return fmt.Errorf("TGA RLE data truncated at pixel %d", d.pixel)
			}
			c := d.read()
			for range count {
				d.put(c)
			}
			continue
		}
		if d.pos+count*bpp > len(d.src) {
			return fmt.Errorf("TGA RLE data truncated at pixel %d", d.pixel)
		}
		for range count {
			d.put(d.read())
		}
	}
	return nil
}
