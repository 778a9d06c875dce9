package texture

import (
	"image"
	"image/color"
	"testing"
)

func TestDecodeR8(t *testing.T) {
	// 2x2 stored bottom-up: the first row of bytes is the bottom row.
	data := []byte{10, 20, 30, 40}
	img, err := Decode(R8, 2, 2, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("expected *image.Gray, got %T", img)
	}
	if gray.GrayAt(0, 0).Y != 10 || gray.GrayAt(1, 1).Y != 40 {
		t.Errorf("decoder reordered rows: %v", gray.Pix)
	}
}

func TestDecodeRGBA32(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	img, err := Decode(RGBA32, 2, 1, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("expected *image.NRGBA, got %T", img)
	}
	if got := rgba.NRGBAAt(1, 0); got != (color.NRGBA{5, 6, 7, 8}) {
		t.Errorf("pixel mismatch: %+v", got)
	}
}

func TestDecodeBGRA32SwapsChannels(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	img, err := Decode(BGRA32, 1, 1, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := img.(*image.NRGBA).NRGBAAt(0, 0)
	if got != (color.NRGBA{R: 3, G: 2, B: 1, A: 4}) {
		t.Errorf("channel order mismatch: %+v", got)
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	if _, err := Decode(RGBA32, 4, 4, make([]byte, 8)); err == nil {
		t.Error("expected error for undersized buffer")
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	if _, err := Decode(ASTC_RGB_4x4, 4, 4, make([]byte, 16)); err == nil {
		t.Error("expected error for format without a registered decoder")
	}
}

func TestRegisterDecoder(t *testing.T) {
	called := false
	RegisterDecoder(ASTC_RGB_5x5, func(width, height int, data []byte) (image.Image, error) {
		called = true
		return image.NewNRGBA(image.Rect(0, 0, width, height)), nil
	})
	if _, err := Decode(ASTC_RGB_5x5, 5, 5, make([]byte, 16)); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !called {
		t.Error("registered decoder was not invoked")
	}
}

func TestMipSize(t *testing.T) {
	cases := []struct {
		format Format
		w, h   int
		want   int
	}{
		{R8, 16, 16, 256},
		{RGBA32, 2, 2, 16},
		{ASTC_RGB_4x4, 16, 16, 256},
		{ASTC_RGB_4x4, 17, 17, 400}, // partial blocks round up
		{ASTC_RGB_6x6, 12, 6, 32},
	}
	for _, c := range cases {
		got, err := c.format.MipSize(c.w, c.h)
		if err != nil {
			t.Fatalf("%s %dx%d: %v", c.format, c.w, c.h, err)
		}
		if got != c.want {
			t.Errorf("%s %dx%d: expected %d bytes, got %d", c.format, c.w, c.h, c.want, got)
		}
	}

	if _, err := PVRTC_RGB2.MipSize(16, 16); err == nil {
		t.Error("expected error for format without block layout")
	}
}

func TestCropAndFlip(t *testing.T) {
	base := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			base.SetGray(x, y, color.Gray{Y: uint8(y*4 + x)})
		}
	}

	t.Run("CropCopiesRegion", func(t *testing.T) {
		out := Crop(base, image.Rect(1, 2, 3, 4))
		if out.Bounds().Dx() != 2 || out.Bounds().Dy() != 2 {
			t.Fatalf("unexpected bounds %v", out.Bounds())
		}
		if got := out.NRGBAAt(0, 0); got.R != 9 {
			t.Errorf("expected pixel value 9 at origin, got %d", got.R)
		}
	})

	t.Run("CropOffEdgeZeroFills", func(t *testing.T) {
		out := Crop(base, image.Rect(3, 3, 6, 6))
		if got := out.NRGBAAt(0, 0); got.R != 15 {
			t.Errorf("expected pixel value 15, got %d", got.R)
		}
		if got := out.NRGBAAt(2, 2); got != (color.NRGBA{}) {
			t.Errorf("expected zero fill outside source, got %+v", got)
		}
	})

	t.Run("FlipReversesRows", func(t *testing.T) {
		out := FlipV(base)
		if got := out.NRGBAAt(0, 0); got.R != 12 {
			t.Errorf("expected bottom row first after flip, got %d", got.R)
		}
		if got := out.NRGBAAt(3, 3); got.R != 3 {
			t.Errorf("expected top row last after flip, got %d", got.R)
		}
	})
}
