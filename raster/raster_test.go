package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestNewInvalid(t *testing.T) {
	dims := [][3]int{
		{0, 10, 1},
		{10, 0, 1},
		{10, 10, 0},
		{-1, 5, 1},
	}
	for _, d := range dims {
		_, err := New(d[0], d[1], d[2])
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("New(%v) error: %v, expected: %v", d, err, ErrInvalidInput)
		}
	}
}

func TestValidate(t *testing.T) {
	r, err := NewBinary(4, 3)
	if err != nil {
		t.Error(err)
		return
	}
	if err := r.Validate(); err != nil {
		t.Errorf("fresh raster should be valid: %v", err)
	}
	r.Data = r.Data[:5]
	if err := r.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("truncated buffer error: %v, expected: %v", err, ErrInvalidInput)
	}
	var nilRaster *Raster
	if err := nilRaster.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil raster error: %v, expected: %v", err, ErrInvalidInput)
	}
}

func TestFillRectClipped(t *testing.T) {
	r, _ := NewBinary(4, 4)
	r.FillRect(image.Rect(2, 2, 10, 10), Foreground)
	expected := []uint8{
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 255, 255,
		0, 0, 255, 255,
	}
	if diff := cmp.Diff(expected, r.Data); diff != "" {
		t.Errorf("FillRect mismatch (-want +got):\n%s", diff)
	}
}

func TestGrayRoundTrip(t *testing.T) {
	r, _ := NewBinary(3, 2)
	copy(r.Data, []uint8{1, 2, 3, 4, 5, 6})
	back := FromGray(r.ToGray())
	if diff := cmp.Diff(r, back); diff != "" {
		t.Errorf("gray round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromImageLuminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})
	img.Set(1, 0, color.RGBA{0, 0, 0, 255})
	r := FromImage(img)
	if r.Width != 2 || r.Height != 1 || r.Channels != 1 {
		t.Errorf("wrong shape: %dx%dx%d, expected: 2x1x1", r.Width, r.Height, r.Channels)
		return
	}
	if r.At(0, 0) != 255 {
		t.Errorf("white luminance: %v, expected: %v", r.At(0, 0), 255)
	}
	if r.At(1, 0) != 0 {
		t.Errorf("black luminance: %v, expected: %v", r.At(1, 0), 0)
	}
}

func TestThreshold(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 1))
	copy(gray.Pix, []uint8{10, 100, 200, 250})
	r := Threshold(gray, 150)
	expected := []uint8{0, 0, 255, 255}
	if diff := cmp.Diff(expected, r.Data); diff != "" {
		t.Errorf("Threshold mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenRemovesSpecks(t *testing.T) {
	r, _ := NewBinary(30, 30)
	r.FillRect(image.Rect(5, 5, 25, 25), Foreground)
	// isolated speck far from the block
	r.Set(1, 28, Foreground)
	opened := Open(r, 1)
	if opened.At(1, 28) != Background {
		t.Errorf("speck survived opening")
	}
	if opened.At(15, 15) != Foreground {
		t.Errorf("block center lost after opening")
	}
	if opened.At(0, 0) != Background {
		t.Errorf("background corner became foreground")
	}
}

func TestCloseFillsHoles(t *testing.T) {
	r, _ := NewBinary(30, 30)
	r.FillRect(image.Rect(5, 5, 25, 25), Foreground)
	r.Set(15, 15, Background)
	closed := Close(r, 1)
	if closed.At(15, 15) != Foreground {
		t.Errorf("hole survived closing")
	}
	if closed.At(0, 0) != Background {
		t.Errorf("background corner became foreground")
	}
}

func TestHSVGate(t *testing.T) {
	gold := HSVGate{{Hue: &HueRange{Min: 35, Max: 95}, MinSaturation: 40, MinValue: 40}}
	silver := HSVGate{{MaxSaturation: 60, MinValue: 81, MaxValue: 240}}
	tests := []struct {
		name  string
		gate  HSVGate
		c     color.Color
		match bool
	}{
		{"yellow is gold", gold, color.RGBA{200, 180, 40, 255}, true},
		{"blue is not gold", gold, color.RGBA{40, 60, 200, 255}, false},
		{"dark yellow is not gold", gold, color.RGBA{30, 28, 5, 255}, false},
		{"light gray is silver", silver, color.RGBA{160, 160, 160, 255}, true},
		{"white is not silver", silver, color.RGBA{250, 250, 250, 255}, false},
		{"value 80 is not silver", silver, color.RGBA{80, 80, 80, 255}, false},
		{"value 81 is silver", silver, color.RGBA{81, 81, 81, 255}, true},
		{"transparent never matches", silver, color.RGBA{0, 0, 0, 0}, false},
	}
	for _, tt := range tests {
		if got := tt.gate.Match(tt.c); got != tt.match {
			t.Errorf("%s: %v, expected: %v", tt.name, got, tt.match)
		}
	}
}

func TestHSVMask(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{200, 180, 40, 255})
	img.Set(1, 0, color.RGBA{40, 60, 200, 255})
	img.Set(0, 1, color.RGBA{40, 60, 200, 255})
	img.Set(1, 1, color.RGBA{210, 190, 50, 255})
	gate := HSVGate{{Hue: &HueRange{Min: 35, Max: 95}, MinSaturation: 40, MinValue: 40}}
	mask := HSVMask(img, gate)
	expected := []uint8{255, 0, 0, 255}
	if diff := cmp.Diff(expected, mask.Data); diff != "" {
		t.Errorf("HSVMask mismatch (-want +got):\n%s", diff)
	}
}
