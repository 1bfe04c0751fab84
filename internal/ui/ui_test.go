package ui

import (
	"strings"
	"testing"

	"go-hex-conquest/internal/app"
	"go-hex-conquest/internal/config"
)

func TestInfoPanel_SlidesInAndOut(t *testing.T) {
	p := NewInfoPanel()
	if p.IsVisible {
		t.Fatal("new panel visible")
	}
	p.SetTarget(app.TileInfo{Address: "8228308ffffffff", Terrain: "land", OwnerName: "None"})
	for i := 0; i < 100; i++ {
		p.Update()
	}
	if !p.IsVisible || p.currentY != config.ScreenHeight-panelHeight {
		t.Fatalf("visible=%v y=%v", p.IsVisible, p.currentY)
	}
	p.Hide()
	for i := 0; i < 100; i++ {
		p.Update()
	}
	if p.IsVisible || p.Target().Address != "" {
		t.Fatal("panel did not hide")
	}
}

func TestInfoPanel_Lines(t *testing.T) {
	p := NewInfoPanel()
	p.SetTarget(app.TileInfo{Address: "abc", Terrain: "mountain", Resources: 42, Income: 0.63, OwnerName: "Player 2", Units: 3, Neighbors: 6})
	left, right := p.Lines()
	if !strings.Contains(left[0], "abc") || !strings.Contains(left[1], "mountain") || !strings.Contains(left[3], "0.63") {
		t.Fatalf("left=%v", left)
	}
	if !strings.Contains(right[0], "Player 2") || !strings.Contains(right[1], "3") || !strings.Contains(right[3], "6") {
		t.Fatalf("right=%v", right)
	}
}

func TestStateIndicator_Contains(t *testing.T) {
	i := NewStateIndicator(100, 100, 10)
	if !i.Contains(105, 105) || i.Contains(120, 100) {
		t.Fatal("hit test wrong")
	}
}
