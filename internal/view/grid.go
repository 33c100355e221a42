package view

import (
	"sync"
	"time"

	"camctl/pkg/models"
)

// RemovalDelay is the fade-out time between a confirmed delete and the card
// leaving the grid.
const RemovalDelay = 500 * time.Millisecond

type Card struct {
	models.Camera
	Opacity float64
}

// Grid is the ordered set of camera cards.
type Grid struct {
	mu      sync.Mutex
	cards   []Card
	removed map[int]chan struct{}

	after    afterFunc
	onChange func(cards []Card)
}

func NewGrid(cameras []models.Camera, onChange func(cards []Card)) *Grid {
	g := &Grid{
		removed:  map[int]chan struct{}{},
		after:    realAfter,
		onChange: onChange,
	}
	for _, cam := range cameras {
		g.cards = append(g.cards, Card{Camera: cam, Opacity: 1})
	}
	return g
}

// Cards returns a snapshot including cards that are fading out.
func (g *Grid) Cards() []Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Card(nil), g.cards...)
}

// Cameras returns the cameras of every card still in the grid.
func (g *Grid) Cameras() []models.Camera {
	g.mu.Lock()
	defer g.mu.Unlock()

	cams := make([]models.Camera, 0, len(g.cards))
	for _, c := range g.cards {
		cams = append(cams, c.Camera)
	}
	return cams
}

// Card returns a live card: present and not already fading out.
func (g *Grid) Card(id int) (Card, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, fading := g.removed[id]; fading {
		return Card{}, false
	}
	for _, c := range g.cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

func (g *Grid) Add(cam models.Camera) {
	g.mu.Lock()
	g.cards = append(g.cards, Card{Camera: cam, Opacity: 1})
	g.mu.Unlock()

	g.notify()
}

// FadeOut drops the card's opacity to zero and removes it after RemovalDelay.
// The returned channel closes once the card is gone. Repeated calls for the
// same card return the same channel; false means no such card.
func (g *Grid) FadeOut(id int) (<-chan struct{}, bool) {
	g.mu.Lock()
	if done, ok := g.removed[id]; ok {
		g.mu.Unlock()
		return done, true
	}

	i := g.index(id)
	if i < 0 {
		g.mu.Unlock()
		return nil, false
	}

	done := make(chan struct{})
	g.removed[id] = done
	g.cards[i].Opacity = 0
	g.after(RemovalDelay, func() { g.remove(id) })
	g.mu.Unlock()

	g.notify()
	return done, true
}

func (g *Grid) remove(id int) {
	g.mu.Lock()
	if i := g.index(id); i >= 0 {
		g.cards = append(g.cards[:i], g.cards[i+1:]...)
	}
	done := g.removed[id]
	delete(g.removed, id)
	g.mu.Unlock()

	if done != nil {
		close(done)
	}
	g.notify()
}

func (g *Grid) index(id int) int {
	for i, c := range g.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (g *Grid) notify() {
	if g.onChange != nil {
		g.onChange(g.Cards())
	}
}
