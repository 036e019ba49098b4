// Package render composites effect overlays and particles onto video
// frames.
package render

import (
	"image/color"
)

// Image is a view over an interleaved 8-bit pixel buffer in BGR(A) order.
type Image struct {
	Pix      []uint8
	Width    int
	Height   int
	Channels int
}

// NewImage allocates a zeroed image.
func NewImage(width, height, channels int) Image {
	return Image{
		Pix:      make([]uint8, width*height*channels),
		Width:    width,
		Height:   height,
		Channels: channels,
	}
}

func (m Image) offset(x, y int) int {
	return (y*m.Width + x) * m.Channels
}

// At returns the channel values of the pixel at (x, y).
func (m Image) At(x, y int) []uint8 {
	i := m.offset(x, y)
	return m.Pix[i : i+m.Channels]
}

// clip intersects a w*h rectangle placed at (x, y) with the destination
// bounds and returns the source origin and visible extent.
func clip(dst Image, x, y, w, h int) (sx, sy, dx, dy, cw, ch int) {
	sx, sy, dx, dy = 0, 0, x, y
	if dx < 0 {
		sx = -dx
		dx = 0
	}
	if dy < 0 {
		sy = -dy
		dy = 0
	}
	cw = min(w-sx, dst.Width-dx)
	ch = min(h-sy, dst.Height-dy)
	return sx, sy, dx, dy, max(cw, 0), max(ch, 0)
}

func mix(src, dst uint8, a float64) uint8 {
	v := a*float64(src) + (1-a)*float64(dst) + 0.5
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// BlendImage draws src onto dst with its top-left corner at (x, y). When
// src carries a fourth channel it is used as per-pixel alpha, scaled by
// opacity. Parts of src falling outside dst are clipped.
func BlendImage(dst, src Image, x, y int, opacity float64) {
	if opacity <= 0 || dst.Channels < 3 || src.Channels < 3 {
		return
	}
	opacity = min(opacity, 1)
	sx, sy, dx, dy, cw, ch := clip(dst, x, y, src.Width, src.Height)

	for row := 0; row < ch; row++ {
		for col := 0; col < cw; col++ {
			s := src.At(sx+col, sy+row)
			d := dst.At(dx+col, dy+row)
			a := opacity
			if src.Channels == 4 {
				a *= float64(s[3]) / 255
			}
			if a == 0 {
				continue
			}
			d[0] = mix(s[0], d[0], a)
			d[1] = mix(s[1], d[1], a)
			d[2] = mix(s[2], d[2], a)
		}
	}
}

// BlendMask tints dst with c wherever the single-channel mask is set,
// scaling the mask value by alpha. Mask and dst must share dimensions.
func BlendMask(dst, mask Image, c color.RGBA, alpha float64) {
	if alpha <= 0 || mask.Channels != 1 || mask.Width != dst.Width || mask.Height != dst.Height {
		return
	}
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			m := mask.Pix[y*mask.Width+x]
			if m == 0 {
				continue
			}
			a := alpha * float64(m) / 255
			d := dst.At(x, y)
			d[0] = mix(c.B, d[0], a)
			d[1] = mix(c.G, d[1], a)
			d[2] = mix(c.R, d[2], a)
		}
	}
}

// BlendDisc draws a filled disc of radius r centred at (cx, cy).
func BlendDisc(dst Image, cx, cy, r int, c color.RGBA, alpha float64) {
	if alpha <= 0 || r <= 0 {
		return
	}
	alpha = min(alpha, 1)
	x0, y0 := max(cx-r, 0), max(cy-r, 0)
	x1, y1 := min(cx+r, dst.Width-1), min(cy+r, dst.Height-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			ddx, ddy := x-cx, y-cy
			if ddx*ddx+ddy*ddy > r*r {
				continue
			}
			d := dst.At(x, y)
			d[0] = mix(c.B, d[0], alpha)
			d[1] = mix(c.G, d[1], alpha)
			d[2] = mix(c.R, d[2], alpha)
		}
	}
}

// CenterColumns clears dst to black and copies src into it horizontally
// centred. src must be no wider than dst and share its height and
// channel count.
func CenterColumns(dst, src Image) {
	clear(dst.Pix)
	if src.Height != dst.Height || src.Channels != dst.Channels {
		return
	}
	w := min(src.Width, dst.Width)
	start := (dst.Width - w) / 2
	rowBytes := w * src.Channels
	for y := 0; y < dst.Height; y++ {
		copy(dst.Pix[dst.offset(start, y):], src.Pix[src.offset(0, y):src.offset(0, y)+rowBytes])
	}
}

// SqueezeWidth is the visible width of a frame squeezed by progress in
// [0, 1]. It never drops below one column.
func SqueezeWidth(width int, progress float64) int {
	return max(1, int(float64(width)*(1-progress)))
}

// CoverRect scales an image of size iw*ih uniformly so that it covers a
// w*h frame, and returns the scaled size and the top-left offset that
// centres it.
func CoverRect(w, h, iw, ih int) (tw, th, x, y int) {
	if iw <= 0 || ih <= 0 {
		return 0, 0, 0, 0
	}
	scale := max(float64(w)/float64(iw), float64(h)/float64(ih))
	tw = int(float64(iw) * scale)
	th = int(float64(ih) * scale)
	return tw, th, (w - tw) / 2, (h - th) / 2
}
