package texture

import (
	"fmt"
	"image"
	"sync"
)

// DecodeFunc converts raw texture bytes for one mip level into an image.
// Decoders preserve the stored row order, which is bottom-up; callers flip
// with FlipV once they have cut out the region they care about.
type DecodeFunc func(width, height int, data []byte) (image.Image, error)

var (
	decodersMu sync.RWMutex
	decoders   = map[Format]DecodeFunc{
		R8:     decodeGray,
		Alpha8: decodeGray,
		RGB24:  decodeRGB24,
		RGBA32: decodeRGBA32,
		BGRA32: decodeBGRA32,
	}
)

// RegisterDecoder installs a decoder for a format, replacing any builtin.
// Hardware-compressed formats (ASTC, ETC2, BC) have no builtin decoder and
// need one registered before Decode will handle them.
func RegisterDecoder(f Format, fn DecodeFunc) {
	decodersMu.Lock()
	defer decodersMu.Unlock()
	decoders[f] = fn
}

// Decode converts one mip level of raw texture data into an image.
func Decode(f Format, width, height int, data []byte) (image.Image, error) {
	decodersMu.RLock()
	fn, ok := decoders[f]
	decodersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no decoder registered for texture format %s", f)
	}
	want, err := f.MipSize(width, height)
	if err == nil && len(data) < want {
		return nil, fmt.Errorf("texture data is %d bytes, format %s at %dx%d needs %d", len(data), f, width, height, want)
	}
	return fn(width, height, data)
}

func decodeGray(width, height int, data []byte) (image.Image, error) {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		copy(img.Pix[y*img.Stride:], data[y*width:(y+1)*width])
	}
	return img, nil
}

func decodeRGBA32(width, height int, data []byte) (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowBytes := width * 4
	for y := 0; y < height; y++ {
		copy(img.Pix[y*img.Stride:], data[y*rowBytes:(y+1)*rowBytes])
	}
	return img, nil
}

func decodeBGRA32(width, height int, data []byte) (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowBytes := width * 4
	for y := 0; y < height; y++ {
		src := data[y*rowBytes : (y+1)*rowBytes]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			dst[x*4+0] = src[x*4+2]
			dst[x*4+1] = src[x*4+1]
			dst[x*4+2] = src[x*4+0]
			dst[x*4+3] = src[x*4+3]
		}
	}
	return img, nil
}

func decodeRGB24(width, height int, data []byte) (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowBytes := width * 3
	for y := 0; y < height; y++ {
		src := data[y*rowBytes : (y+1)*rowBytes]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return img, nil
}

// Crop copies a sub-rectangle of img into a new image. Pixels outside img
// come out zero, matching a crop that runs off the edge.
func Crop(img image.Image, r image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	clipped := r.Intersect(img.Bounds())
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		for x := clipped.Min.X; x < clipped.Max.X; x++ {
			out.Set(x-r.Min.X, y-r.Min.Y, img.At(x, y))
		}
	}
	return out
}

// FlipV returns img mirrored vertically. Stored texture rows are bottom-up,
// so extracted regions get flipped once coordinates no longer matter.
func FlipV(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, b.Dy()-1-y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}
