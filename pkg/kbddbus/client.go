package kbddbus

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/miketth/kbddbar/pkg/kbdd"
	"github.com/godbus/dbus/v5"
)

const (
	ServiceName = "ru.gentoo.KbddService"
	ObjectPath  = dbus.ObjectPath("/ru/gentoo/KbddService")
	Interface   = "ru.gentoo.kbdd"

	signalBuffer = 16
)

var ErrNotRunning = errors.New("kbdd is not on the session bus")

// Client talks to kbdd over the session bus.
type Client struct {
	conn *dbus.Conn
}

func Connect() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Subscribe registers a match rule for kbdd's layoutChanged signal and
// forwards matching signals until ctx is done or the connection closes.
func (c *Client) Subscribe(ctx context.Context) (<-chan kbdd.Event, error) {
	err := c.conn.AddMatchSignalContext(ctx,
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember(kbdd.SignalLayoutChanged),
	)
	if err != nil {
		return nil, fmt.Errorf("add match rule: %w", err)
	}

	signals := make(chan *dbus.Signal, signalBuffer)
	c.conn.Signal(signals)

	out := make(chan kbdd.Event)
	go func() {
		defer close(out)
		defer c.conn.RemoveSignal(signals)

		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}

				ev, ok := toEvent(sig)
				if !ok {
					continue
				}

				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func toEvent(sig *dbus.Signal) (kbdd.Event, bool) {
	if sig == nil || sig.Name != Interface+"."+kbdd.SignalLayoutChanged {
		return kbdd.Event{}, false
	}

	return kbdd.Event{Name: kbdd.SignalLayoutChanged, Body: sig.Body}, true
}

// IsRunning reports whether kbdd owns its well-known bus name.
func (c *Client) IsRunning(ctx context.Context) (bool, error) {
	var hasOwner bool
	err := c.conn.BusObject().
		CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, ServiceName).
		Store(&hasOwner)
	if err != nil {
		return false, fmt.Errorf("query name owner: %w", err)
	}

	return hasOwner, nil
}

func (c *Client) NextLayout(ctx context.Context) error {
	return c.call(ctx, "nextLayout")
}

func (c *Client) PrevLayout(ctx context.Context) error {
	return c.call(ctx, "prevLayout")
}

func (c *Client) call(ctx context.Context, method string) error {
	call := c.conn.Object(ServiceName, ObjectPath).CallWithContext(ctx, Interface+"."+method, 0)
	if call.Err != nil {
		return c.mapError(method, call.Err)
	}

	return nil
}

func (c *Client) mapError(method string, err error) error {
	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) && dbusErr.Name == "org.freedesktop.DBus.Error.ServiceUnknown" {
		return fmt.Errorf("%s: %w", method, ErrNotRunning)
	}

	return fmt.Errorf("%s: %w", method, err)
}
