package bar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

const (
	ButtonLeft  = 1
	ButtonRight = 3
)

// ClickEvent is sent by i3bar on stdin when click_events is enabled.
type ClickEvent struct {
	Name     string `json:"name"`
	Instance string `json:"instance"`
	Button   int    `json:"button"`
}

// ReadClicks decodes the endless click event array from r and hands every
// event to handle. It returns nil when r is exhausted.
func ReadClicks(ctx context.Context, r io.Reader, handle func(ClickEvent)) error {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read click stream: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("read click stream: unexpected token %v", tok)
	}

	for dec.More() {
		var ev ClickEvent
		if err := dec.Decode(&ev); err != nil {
			return fmt.Errorf("decode click event: %w", err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		handle(ev)
	}

	return nil
}
