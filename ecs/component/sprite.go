package component

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite is a flat coloured rectangle sized in world units. Image is an
// optional override filled by the render system on first draw.
type Sprite struct {
	Image  *ebiten.Image
	Color  color.Color
	Width  float64
	Height float64
	FlipX  bool
	Hidden bool
}

// SetFlipX mirrors the sprite horizontally.
func (s *Sprite) SetFlipX(flip bool) {
	s.FlipX = flip
}

var SpriteComponent = NewComponent[Sprite]()
