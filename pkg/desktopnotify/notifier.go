package desktopnotify

import (
	"fmt"

	"codeberg.org/miketth/kbddbar/pkg/kbdd"
	"github.com/gen2brain/beeep"
)

const title = "Keyboard layout"

// Describer resolves a layout code to a human readable name.
type Describer interface {
	Description(code string) string
}

// Notifier pops up a desktop notification for every layout change.
type Notifier struct {
	describer Describer
	notify    func(title, message string) error
}

// New returns a Notifier. describer may be nil, in which case the layout
// code is shown as is.
func New(describer Describer) *Notifier {
	return &Notifier{
		describer: describer,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

func (n *Notifier) LayoutChanged(change kbdd.LayoutChange) error {
	if err := n.notify(title, n.message(change.Layout)); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	return nil
}

func (n *Notifier) message(layout string) string {
	if n.describer == nil {
		return layout
	}

	desc := n.describer.Description(layout)
	if desc == "" {
		return layout
	}

	return fmt.Sprintf("%s (%s)", desc, layout)
}
