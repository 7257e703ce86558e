package bar

import (
	"strings"
	"sync"
)

// Block is a single i3bar protocol block.
type Block struct {
	Name     string `json:"name,omitempty"`
	Instance string `json:"instance,omitempty"`
	FullText string `json:"full_text"`
	Color    string `json:"color,omitempty"`
}

// Segment is the slot the layout indicator renders into. The colour is set
// as a side effect of layout changes and survives across renders.
type Segment struct {
	name string

	lock   sync.Mutex
	colour string
}

func NewSegment(name string) *Segment {
	return &Segment{name: name}
}

func (s *Segment) SetColour(colour string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.colour = normalizeColour(colour)
}

func (s *Segment) Colour() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.colour
}

func (s *Segment) Block(label string) Block {
	return Block{
		Name:     s.name,
		FullText: label,
		Color:    s.Colour(),
	}
}

// normalizeColour turns "E6F0AF" into "#E6F0AF".
func normalizeColour(colour string) string {
	colour = strings.TrimSpace(colour)
	if colour == "" || strings.HasPrefix(colour, "#") {
		return colour
	}
	return "#" + colour
}
