package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// FromImage converts any image to single-channel luminance raster.
// Luminance weights are 0.299, 0.587, 0.114.
func FromImage(img image.Image) *Raster {
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	r := &Raster{
		Width:    width,
		Height:   height,
		Channels: 1,
		Data:     make([]uint8, width*height),
	}
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < width; x++ {
			r.Data[y*width+x] = row[x*4]
		}
	}
	return r
}

// FromGray wraps copy of gray image into raster
func FromGray(gray *image.Gray) *Raster {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	r := &Raster{
		Width:    width,
		Height:   height,
		Channels: 1,
		Data:     make([]uint8, width*height),
	}
	for y := 0; y < height; y++ {
		copy(r.Data[y*width:(y+1)*width], gray.Pix[y*gray.Stride:y*gray.Stride+width])
	}
	return r
}

// fromRGBA takes red channel of RGBA image. Used for outputs of filters which keep gray levels in every channel.
func fromRGBA(rgba *image.RGBA) *Raster {
	bounds := rgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	r := &Raster{
		Width:    width,
		Height:   height,
		Channels: 1,
		Data:     make([]uint8, width*height),
	}
	for y := 0; y < height; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < width; x++ {
			r.Data[y*width+x] = row[x*4]
		}
	}
	return r
}

// ToGray exposes channel 0 of raster as gray image
func (r *Raster) ToGray() *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			gray.Pix[y*gray.Stride+x] = r.At(x, y)
		}
	}
	return gray
}

// Threshold binarizes image: samples with luminance >= level become Foreground, others Background
func Threshold(img image.Image, level uint8) *Raster {
	return FromGray(segment.Threshold(img, level))
}

// Open applies morphological opening (erosion followed by dilation) with disk of given radius
func Open(r *Raster, radius float64) *Raster {
	if radius <= 0 {
		return r.Clone()
	}
	eroded := effect.Erode(r.ToGray(), radius)
	return fromRGBA(effect.Dilate(eroded, radius))
}

// Close applies morphological closing (dilation followed by erosion) with disk of given radius
func Close(r *Raster, radius float64) *Raster {
	if radius <= 0 {
		return r.Clone()
	}
	dilated := effect.Dilate(r.ToGray(), radius)
	return fromRGBA(effect.Erode(dilated, radius))
}

// HueRange is closed interval of hue degrees
type HueRange struct {
	Min float64
	Max float64
}

// Contains reports whether hue is inside the range
func (hr HueRange) Contains(hue float64) bool {
	return hue >= hr.Min && hue <= hr.Max
}

// HSVRule is conjunction of bounds on hue (degrees), saturation and value (both 0-255).
// Zero bound means "not constrained" for MaxSaturation and MaxValue; Hue is ignored when nil.
type HSVRule struct {
	Hue           *HueRange
	MinSaturation float64
	MaxSaturation float64
	MinValue      float64
	MaxValue      float64
}

// Match checks single HSV triple against the rule.
// Upper bounds are exclusive, lower bounds inclusive.
func (rule HSVRule) Match(h, s, v float64) bool {
	if rule.Hue != nil && !rule.Hue.Contains(h) {
		return false
	}
	if s < rule.MinSaturation || (rule.MaxSaturation > 0 && s >= rule.MaxSaturation) {
		return false
	}
	if v < rule.MinValue || (rule.MaxValue > 0 && v >= rule.MaxValue) {
		return false
	}
	return true
}

// HSVGate is disjunction of rules
type HSVGate []HSVRule

// Match returns true if any rule accepts the color
func (gate HSVGate) Match(c color.Color) bool {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return false
	}
	h, s, v := cf.Hsv()
	s *= 255
	// Value is max channel, keep it on integer grid
	v = math.Round(v * 255)
	if s == 0 {
		// Achromatic colors carry no hue
		h = 0
	}
	for _, rule := range gate {
		if rule.Match(h, s, v) {
			return true
		}
	}
	return false
}

// HSVMask builds binary raster where pixels accepted by gate are Foreground
func HSVMask(img image.Image, gate HSVGate) *Raster {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	r := &Raster{
		Width:    width,
		Height:   height,
		Channels: 1,
		Data:     make([]uint8, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if gate.Match(img.At(bounds.Min.X+x, bounds.Min.Y+y)) {
				r.Data[y*width+x] = Foreground
			}
		}
	}
	return r
}
