package bar

import (
	"encoding/json"
	"fmt"
	"io"
)

// Writer emits status updates in a bar specific format.
type Writer interface {
	Start() error
	Write(block Block) error
}

type header struct {
	Version     int  `json:"version"`
	ClickEvents bool `json:"click_events"`
}

// I3Bar speaks the i3bar/swaybar protocol: a header line followed by an
// endless JSON array of status lines.
type I3Bar struct {
	w           io.Writer
	clickEvents bool
	started     bool
}

func NewI3Bar(w io.Writer, clickEvents bool) *I3Bar {
	return &I3Bar{w: w, clickEvents: clickEvents}
}

func (b *I3Bar) Start() error {
	hdr, err := json.Marshal(header{Version: 1, ClickEvents: b.clickEvents})
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}

	if _, err := fmt.Fprintf(b.w, "%s\n[\n", hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	return nil
}

func (b *I3Bar) Write(block Block) error {
	line, err := json.Marshal([]Block{block})
	if err != nil {
		return fmt.Errorf("marshal status line: %w", err)
	}

	prefix := ","
	if !b.started {
		prefix = ""
		b.started = true
	}

	if _, err := fmt.Fprintf(b.w, "%s%s\n", prefix, line); err != nil {
		return fmt.Errorf("write status line: %w", err)
	}

	return nil
}

// Text prints the bare label, one line per update, for bars that run a
// script and read its stdout (waybar custom modules, xmobar, dwmblocks).
type Text struct {
	w io.Writer
}

func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

func (t *Text) Start() error {
	return nil
}

func (t *Text) Write(block Block) error {
	if _, err := fmt.Fprintln(t.w, block.FullText); err != nil {
		return fmt.Errorf("write label: %w", err)
	}
	return nil
}

// Polybar prints the label wrapped in polybar foreground colour tags.
type Polybar struct {
	w io.Writer
}

func NewPolybar(w io.Writer) *Polybar {
	return &Polybar{w: w}
}

func (p *Polybar) Start() error {
	return nil
}

func (p *Polybar) Write(block Block) error {
	text := block.FullText
	if block.Color != "" {
		text = fmt.Sprintf("%%{F%s}%s%%{F-}", block.Color, text)
	}

	if _, err := fmt.Fprintln(p.w, text); err != nil {
		return fmt.Errorf("write label: %w", err)
	}
	return nil
}
