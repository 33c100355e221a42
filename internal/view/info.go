package view

import (
	"sync"

	"camctl/pkg/models"
)

// InfoPanel displays the last reported PTZ position. Hidden until a
// successful info query.
type InfoPanel struct {
	mu       sync.Mutex
	pos      models.Position
	visible  bool
	onChange func(pos models.Position, visible bool)
}

func NewInfoPanel(onChange func(pos models.Position, visible bool)) *InfoPanel {
	return &InfoPanel{onChange: onChange}
}

func (p *InfoPanel) Show(pos models.Position) {
	p.mu.Lock()
	p.pos = pos
	p.visible = true
	p.mu.Unlock()

	if p.onChange != nil {
		p.onChange(pos, true)
	}
}

func (p *InfoPanel) Hide() {
	p.mu.Lock()
	p.visible = false
	pos := p.pos
	p.mu.Unlock()

	if p.onChange != nil {
		p.onChange(pos, false)
	}
}

func (p *InfoPanel) Current() (models.Position, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos, p.visible
}
