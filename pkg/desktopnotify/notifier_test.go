package desktopnotify

import (
	"errors"
	"testing"
	"time"

	"codeberg.org/miketth/kbddbar/pkg/kbdd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ kbdd.ChangeObserver = (*Notifier)(nil)

type describer map[string]string

func (d describer) Description(code string) string {
	return d[code]
}

func TestLayoutChanged(t *testing.T) {
	var messages []string
	n := New(describer{"ir": "Persian"})
	n.notify = func(title, message string) error {
		assert.Equal(t, "Keyboard layout", title)
		messages = append(messages, message)
		return nil
	}

	require.NoError(t, n.LayoutChanged(kbdd.LayoutChange{At: time.Now(), Index: 1, Layout: "ir"}))
	require.NoError(t, n.LayoutChanged(kbdd.LayoutChange{At: time.Now(), Index: 2, Layout: "xx"}))
	assert.Equal(t, []string{"Persian (ir)", "xx"}, messages)
}

func TestLayoutChangedWithoutDescriber(t *testing.T) {
	n := New(nil)
	n.notify = func(string, string) error {
		return errors.New("no notification daemon")
	}

	err := n.LayoutChanged(kbdd.LayoutChange{Layout: "us"})
	assert.ErrorContains(t, err, "no notification daemon")
	assert.Equal(t, "us", n.message("us"))
}
