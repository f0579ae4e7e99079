package pipeline

import (
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-hair/internal/logger"
	"github.com/Faultbox/midgard-hair/internal/texture"
)

// MapInfo summarizes a baked map read back from disk.
type MapInfo struct {
	Path          string
	Format        texture.Format
	Width, Height int
	// HasAlpha is set when any pixel is not fully opaque. Coverage then
	// measures alpha, otherwise gray luminance.
	HasAlpha bool
	Coverage float64 // mean, in [0, 1]
	Empty    float64 // fraction of zero pixels
	Full     float64 // fraction of saturated pixels
}

// Inspect loads the map at path and summarizes its coverage channel.
func Inspect(path string) (MapInfo, error) {
	format, err := texture.FormatFor(path)
	if err != nil {
		return MapInfo{}, err
	}
	img, err := texture.Load(path)
	if err != nil {
		return MapInfo{}, err
	}

	rgba := texture.ToNRGBA(img)
	info := MapInfo{
		Path:   path,
		Format: format,
		Width:  rgba.Rect.Dx(),
		Height: rgba.Rect.Dy(),
	}
	n := info.Width * info.Height
	if n == 0 {
		return info, nil
	}

	for i := 3; i < len(rgba.Pix); i += 4 {
		if rgba.Pix[i] != 255 {
			info.HasAlpha = true
			break
		}
	}

	var sum, empty, full int
	for i := 0; i < len(rgba.Pix); i += 4 {
		v := rgba.Pix[i+3]
		if !info.HasAlpha {
			g := color.GrayModel.Convert(color.NRGBA{R: rgba.Pix[i], G: rgba.Pix[i+1], B: rgba.Pix[i+2], A: 255})
			v = g.(color.Gray).Y
		}
		sum += int(v)
		switch v {
		case 0:
			empty++
		case 255:
			full++
		}
	}

	info.Coverage = float64(sum) / (255 * float64(n))
	info.Empty = float64(empty) / float64(n)
	info.Full = float64(full) / float64(n)

	logger.Debug("inspected map",
		zap.String("path", path),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Float64("coverage", info.Coverage))
	return info, nil
}
