// Package texture encodes and decodes the baked card maps.
package texture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TGATypeUncompressed      = 2  // Uncompressed true-color
	TGATypeGray              = 3  // Uncompressed grayscale
	TGATypeRLE               = 10 // RLE compressed true-color
	TGATypeRLEGray           = 11 // RLE compressed grayscale
	tgaHeaderSize            = 18
	tgaDescriptorTopToBottom = 0x20
)

var (
	// ErrInvalidTGA is returned for headers this package cannot decode.
	ErrInvalidTGA = errors.New("texture: invalid TGA")
	// ErrTruncatedTGA is returned when pixel data ends early.
	ErrTruncatedTGA = errors.New("texture: TGA data truncated")
)

// DecodeTGA decodes a TGA image. Supports uncompressed and RLE true-color
// (24/32 bit) and grayscale (8 bit). Grayscale decodes to *image.Gray,
// true-color to *image.NRGBA.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: header is %d bytes", ErrTruncatedTGA, len(data))
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped TGA not supported", ErrInvalidTGA)
	}

	gray := imageType == TGATypeGray || imageType == TGATypeRLEGray
	switch {
	case imageType != TGATypeUncompressed && imageType != TGATypeRLE && !gray:
		return nil, fmt.Errorf("%w: unsupported type %d", ErrInvalidTGA, imageType)
	case gray && bpp != 8:
		return nil, fmt.Errorf("%w: grayscale bit depth %d", ErrInvalidTGA, bpp)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: true-color bit depth %d", ErrInvalidTGA, bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: image ID", ErrTruncatedTGA)
	}
	pixelData := data[offset:]
	bytesPerPixel := bpp / 8
	topToBottom := descriptor&tgaDescriptorTopToBottom != 0

	var img image.Image
	var set func(i int, px []byte)
	if gray {
		g := image.NewGray(image.Rect(0, 0, width, height))
		img = g
		set = func(i int, px []byte) {
			g.Pix[i] = px[0]
		}
	} else {
		c := image.NewNRGBA(image.Rect(0, 0, width, height))
		img = c
		set = func(i int, px []byte) {
			a := uint8(255)
			if bytesPerPixel == 4 {
				a = px[3]
			}
			p := c.Pix[i*4 : i*4+4]
			p[0], p[1], p[2], p[3] = px[2], px[1], px[0], a
		}
	}

	// put maps a file-order pixel index to the destination pixel index.
	put := func(pixelIdx int, px []byte) {
		x := pixelIdx % width
		y := pixelIdx / width
		if !topToBottom {
			y = height - 1 - y
		}
		set(y*width+x, px)
	}

	pixelCount := width * height
	if imageType == TGATypeUncompressed || imageType == TGATypeGray {
		if len(pixelData) < pixelCount*bytesPerPixel {
			return nil, fmt.Errorf("%w: want %d pixel bytes, have %d",
				ErrTruncatedTGA, pixelCount*bytesPerPixel, len(pixelData))
		}
		for i := range pixelCount {
			put(i, pixelData[i*bytesPerPixel:])
		}
		return img, nil
	}

	if err := decodeTGARLE(pixelData, pixelCount, bytesPerPixel, put); err != nil {
		return nil, err
	}
	return img, nil
}

// decodeTGARLE walks RLE packets, handing each pixel to put.
func decodeTGARLE(pixelData []byte, pixelCount, bytesPerPixel int, put func(int, []byte)) error {
	pixelIdx := 0
	dataIdx := 0

	for pixelIdx < pixelCount {
		if dataIdx >= len(pixelData) {
			return fmt.Errorf("%w: %d of %d pixels", ErrTruncatedTGA, pixelIdx, pixelCount)
		}
		packet := pixelData[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// RLE packet - repeat single pixel
			if dataIdx+bytesPerPixel > len(pixelData) {
				return fmt.Errorf("%w: run packet", ErrTruncatedTGA)
			}
			px := pixelData[dataIdx : dataIdx+bytesPerPixel]
			dataIdx += bytesPerPixel
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				put(pixelIdx, px)
				pixelIdx++
			}
			continue
		}

		// Raw packet - read count pixels
		for i := 0; i < count && pixelIdx < pixelCount; i++ {
			if dataIdx+bytesPerPixel > len(pixelData) {
				return fmt.Errorf("%w: raw packet", ErrTruncatedTGA)
			}
			put(pixelIdx, pixelData[dataIdx:dataIdx+bytesPerPixel])
			dataIdx += bytesPerPixel
			pixelIdx++
		}
	}

	return nil
}

// EncodeTGA writes img as a top-to-bottom TGA. *image.Gray is written as
// 8-bit grayscale; everything else as 32-bit BGRA with straight alpha.
// rle selects run-length compression.
func EncodeTGA(w io.Writer, img image.Image, rle bool) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width > 0xFFFF || height > 0xFFFF {
		return fmt.Errorf("%w: %dx%d exceeds 65535", ErrInvalidTGA, width, height)
	}

	var pixels []byte
	var bytesPerPixel int
	var imageType byte
	var descriptor byte = tgaDescriptorTopToBottom

	if g, ok := img.(*image.Gray); ok {
		bytesPerPixel = 1
		imageType = TGATypeGray
		pixels = make([]byte, 0, width*height)
		for y := range height {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			pixels = append(pixels, g.Pix[off:off+width]...)
		}
	} else {
		bytesPerPixel = 4
		imageType = TGATypeUncompressed
		descriptor |= 8 // alpha bits
		n := ToNRGBA(img)
		pixels = make([]byte, 0, width*height*4)
		for y := range height {
			row := n.Pix[y*n.Stride : y*n.Stride+width*4]
			for x := 0; x < len(row); x += 4 {
				pixels = append(pixels, row[x+2], row[x+1], row[x], row[x+3])
			}
		}
	}
	if rle {
		imageType += TGATypeRLE - TGATypeUncompressed
	}

	bw := bufio.NewWriter(w)
	header := [tgaHeaderSize]byte{
		2:  imageType,
		12: byte(width),
		13: byte(width >> 8),
		14: byte(height),
		15: byte(height >> 8),
		16: byte(bytesPerPixel * 8),
		17: descriptor,
	}
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	if rle {
		if err := encodeTGARLE(bw, pixels, bytesPerPixel, width); err != nil {
			return err
		}
	} else if _, err := bw.Write(pixels); err != nil {
		return err
	}
	return bw.Flush()
}

// encodeTGARLE writes pixels as RLE packets. Packets never cross a row, as
// the format recommends.
func encodeTGARLE(w *bufio.Writer, pixels []byte, bytesPerPixel, width int) error {
	rowBytes := width * bytesPerPixel
	for start := 0; start < len(pixels); start += rowBytes {
		row := pixels[start : start+rowBytes]
		pixel := func(i int) []byte {
			return row[i*bytesPerPixel : (i+1)*bytesPerPixel]
		}

		for i := 0; i < width; {
			// Length of the run of identical pixels starting at i.
			run := 1
			for i+run < width && run < 128 && string(pixel(i+run)) == string(pixel(i)) {
				run++
			}
			if run > 1 {
				if err := w.WriteByte(0x80 | byte(run-1)); err != nil {
					return err
				}
				if _, err := w.Write(pixel(i)); err != nil {
					return err
				}
				i += run
				continue
			}

			// Raw packet up to the next run of two or more.
			raw := 1
			for i+raw < width && raw < 128 {
				if i+raw+1 < width && string(pixel(i+raw)) == string(pixel(i+raw+1)) {
					break
				}
				raw++
			}
			if err := w.WriteByte(byte(raw - 1)); err != nil {
				return err
			}
			if _, err := w.Write(row[i*bytesPerPixel : (i+raw)*bytesPerPixel]); err != nil {
				return err
			}
			i += raw
		}
	}
	return nil
}

// ToNRGBA converts any image.Image to a tightly packed *image.NRGBA with
// its origin at (0, 0). An image that already is one is returned as is.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}

	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetNRGBA(x-bounds.Min.X, y-bounds.Min.Y, c)
		}
	}
	return out
}

// WithAlpha returns rgb with its alpha channel replaced by alpha. Fully
// transparent pixels get black RGB to prevent color bleeding during
// filtering. The images must have the same size.
func WithAlpha(rgb image.Image, alpha *image.Gray) (*image.NRGBA, error) {
	if rgb.Bounds().Size() != alpha.Bounds().Size() {
		return nil, fmt.Errorf("texture: size mismatch %v vs %v", rgb.Bounds().Size(), alpha.Bounds().Size())
	}

	src := ToNRGBA(rgb)
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)

	ab := alpha.Bounds()
	for y := range ab.Dy() {
		for x := range ab.Dx() {
			a := alpha.GrayAt(ab.Min.X+x, ab.Min.Y+y).Y
			i := out.PixOffset(x, y)
			if a == 0 {
				out.Pix[i] = 0
				out.Pix[i+1] = 0
				out.Pix[i+2] = 0
			}
			out.Pix[i+3] = a
		}
	}
	return out, nil
}
