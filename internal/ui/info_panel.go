// internal/ui/info_panel.go
package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"go-hex-conquest/internal/app"
	"go-hex-conquest/internal/config"
)

const (
	panelHeight    = 130
	panelWidth     = 300
	panelMargin    = 5
	animationSpeed = 10.0
	lineHeight     = 18
	columnSpacing  = 150
)

// InfoPanel slides up from the bottom edge and describes the selected tile.
type InfoPanel struct {
	IsVisible bool
	info      app.TileInfo
	currentY  float64
	targetY   float64
}

// NewInfoPanel creates a hidden panel.
func NewInfoPanel() *InfoPanel {
	return &InfoPanel{
		currentY: config.ScreenHeight,
		targetY:  config.ScreenHeight,
	}
}

// SetTarget shows info, replacing whatever the panel showed before.
func (p *InfoPanel) SetTarget(info app.TileInfo) {
	p.info = info
	p.IsVisible = true
	p.targetY = config.ScreenHeight - panelHeight
}

func (p *InfoPanel) Hide() {
	p.targetY = config.ScreenHeight
}

// Target returns the tile the panel currently describes.
func (p *InfoPanel) Target() app.TileInfo { return p.info }

// Update steps the slide animation.
func (p *InfoPanel) Update() {
	if p.currentY == p.targetY {
		return
	}
	diff := p.targetY - p.currentY
	switch {
	case math.Abs(diff) < animationSpeed:
		p.currentY = p.targetY
	case diff > 0:
		p.currentY += animationSpeed
	default:
		p.currentY -= animationSpeed
	}
	if p.currentY >= config.ScreenHeight {
		p.IsVisible = false
		p.info = app.TileInfo{}
	}
}

// Lines returns the two columns of text the panel shows.
func (p *InfoPanel) Lines() (left, right []string) {
	i := p.info
	left = []string{
		"Tile " + i.Address,
		fmt.Sprintf("Terrain: %s", i.Terrain),
		fmt.Sprintf("Resources: %.0f", i.Resources),
		fmt.Sprintf("Income: %.2f/s", i.Income),
	}
	right = []string{
		fmt.Sprintf("Owner: %s", i.OwnerName),
		fmt.Sprintf("Units: %d", i.Units),
		fmt.Sprintf("Structures: %d", i.Structures),
		fmt.Sprintf("Neighbors: %d", i.Neighbors),
	}
	return left, right
}

func (p *InfoPanel) Draw(screen *ebiten.Image) {
	if !p.IsVisible && p.currentY >= config.ScreenHeight {
		return
	}

	panelRect := image.Rect(
		config.ScreenWidth-panelWidth-panelMargin,
		int(p.currentY)+panelMargin,
		config.ScreenWidth-panelMargin,
		int(p.currentY)+panelHeight-panelMargin,
	)
	bgColor := color.RGBA{R: 25, G: 35, B: 45, A: 230}
	vector.DrawFilledRect(screen, float32(panelRect.Min.X), float32(panelRect.Min.Y), float32(panelRect.Dx()), float32(panelRect.Dy()), bgColor, true)
	borderColor := color.RGBA{R: 70, G: 130, B: 180, A: 255}
	vector.StrokeRect(screen, float32(panelRect.Min.X), float32(panelRect.Min.Y), float32(panelRect.Dx()), float32(panelRect.Dy()), 2, borderColor, true)

	if p.info.Address == "" {
		return
	}
	left, right := p.Lines()
	x := panelRect.Min.X + 15
	y := panelRect.Min.Y + 25
	for i := range left {
		text.Draw(screen, left[i], basicfont.Face7x13, x, y+i*lineHeight, config.TextLightColor)
	}
	for i := range right {
		text.Draw(screen, right[i], basicfont.Face7x13, x+columnSpacing, y+i*lineHeight, config.TextLightColor)
	}
}
