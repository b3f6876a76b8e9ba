package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Gravinyon/internal/sim"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 60
	feedLineHeight = 11
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick     int
	Category string
	Message  string
}

// Feed is a ring buffer of gameplay events rendered beside the playfield.
type Feed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewFeed creates a feed with a fixed capacity.
func NewFeed() *Feed {
	return &Feed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once the feed is full.
func (f *Feed) Add(tick int, category, msg string) {
	f.entries[f.head] = FeedEntry{
		Tick:     tick,
		Category: category,
		Message:  msg,
	}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Len returns the number of entries held.
func (f *Feed) Len() int { return f.count }

// Recent returns entries in chronological order (oldest first).
func (f *Feed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

// Ingest turns one step's worth of simulation events into feed lines. Fire
// and expiry events are too frequent to be useful here and are dropped;
// enemy spawns are folded into a single wave line per tick.
func (f *Feed) Ingest(events []sim.Event) {
	wave, waveTick := 0, 0
	flush := func() {
		if wave > 0 {
			f.Add(waveTick, sim.CatEnemy, fmt.Sprintf("wave of %d", wave))
			wave = 0
		}
	}
	for _, e := range events {
		if e.Category == sim.CatEnemy && e.Key == sim.KeySpawn {
			if wave > 0 && e.Tick != waveTick {
				flush()
			}
			wave++
			waveTick = e.Tick
			continue
		}
		flush()
		switch {
		case e.Category == sim.CatShip && e.Key == sim.KeySpawn:
			f.Add(e.Tick, e.Category, "ship launched")
		case e.Category == sim.CatShip && e.Key == sim.KeyDie:
			f.Add(e.Tick, e.Category, fmt.Sprintf("ship lost (%s) at %.2f,%.2f", e.Value, e.X, e.Y))
		case e.Category == sim.CatEnemy && e.Key == sim.KeyKill:
			f.Add(e.Tick, e.Category, fmt.Sprintf("enemy down at %.2f,%.2f", e.X, e.Y))
		case e.Category == sim.CatDiag:
			f.Add(e.Tick, e.Category, fmt.Sprintf("%s %s -> %.0f", e.Key, e.Value, e.NumVal))
		}
	}
	flush()
}

func feedColor(category string) color.RGBA {
	switch category {
	case sim.CatShip:
		return color.RGBA{R: 230, G: 230, B: 230, A: 255}
	case sim.CatEnemy:
		return color.RGBA{R: 0, G: 220, B: 220, A: 255}
	case sim.CatDiag:
		return color.RGBA{R: 240, G: 180, B: 40, A: 255}
	default:
		return color.RGBA{R: 120, G: 120, B: 120, A: 255}
	}
}

// Draw renders the feed panel with its left edge at panelX.
func (f *Feed) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), float32(panelH), color.RGBA{R: 8, G: 10, B: 14, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), 16, color.RGBA{R: 18, G: 22, B: 32, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+feedPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 60, B: 90, A: 200}, false)

	entries := f.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / feedLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	recent := 3

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(feedPanelWidth-4), float32(feedLineHeight), color.RGBA{R: 26, G: 32, B: 44, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, feedColor(e.Category), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d %s", e.Tick, e.Message), panelX+12, y)
		y += feedLineHeight
	}
}
