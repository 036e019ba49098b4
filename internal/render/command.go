package render

import (
	"image"
	"image/color"
)

// Command is one drawing instruction emitted by an effect for the current
// frame.
type Command interface {
	command()
}

// DrawSprite blends a named sprite unscaled with its top-left corner at
// (X, Y).
type DrawSprite struct {
	Name    string
	X, Y    int
	Opacity float64
}

// CoverSprite scales a named sprite to cover the whole frame, preserving
// aspect ratio, and blends it centred.
type CoverSprite struct {
	Name    string
	Opacity float64
}

// Blush paints soft blurred discs of Color at each cheek.
type Blush struct {
	Cheeks []image.Point
	Radius int
	Color  color.RGBA
	Alpha  float64
}

// Squeeze compresses the frame horizontally toward its centre. Progress 0
// leaves the frame intact; progress 1 leaves a single column.
type Squeeze struct {
	Progress float64
}

func (DrawSprite) command()  {}
func (CoverSprite) command() {}
func (Blush) command()       {}
func (Squeeze) command()     {}
