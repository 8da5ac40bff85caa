package retryclient

import (
	"context"
	"errors"
	"net/url"
	"time"
)

// ErrHandshakeTimeout is returned when a bounded handshake wait elapses
// before the opener receives a result message.
var ErrHandshakeTimeout = errors.New("timed out waiting for web flow result")

// Message is one window message delivered to the opener.
type Message struct {
	Origin string
	Data   any
}

// PopupHandshake resolves a web flow by opening the popup and waiting for
// exactly one message from the callback page. Messages from other origins are
// ignored, not errored. At most one handshake listener is pending at a time.
type PopupHandshake struct {
	// Open launches the popup at the flow's init URL.
	Open func(initURL string) error

	// Messages delivers window messages to the listener.
	Messages <-chan Message

	// Timeout bounds the wait for a result. Zero means wait forever, which
	// matches the browser behaviour where an abandoned popup simply leaves
	// the promise pending.
	Timeout time.Duration
}

// Run implements HandshakeFunc.
func (h *PopupHandshake) Run(ctx context.Context, flow WebFlow) error {
	expectedOrigin, err := origin(flow.CallbackURL)
	if err != nil {
		return err
	}

	if h.Open != nil {
		if err := h.Open(flow.InitURL); err != nil {
			return err
		}
	}

	var timeoutC <-chan time.Time
	if h.Timeout > 0 {
		timer := time.NewTimer(h.Timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	for {
		select {
		case message, ok := <-h.Messages:
			if !ok {
				return errors.New("handshake message channel closed")
			}
			if message.Origin != expectedOrigin {
				continue
			}
			return resultOf(message.Data)
		case <-timeoutC:
			return ErrHandshakeTimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// resultOf maps the callback page's message onto success or failure. The
// success marker is the literal string "OK"; anything else is a failure,
// carrying its reason in error_message when the page provided one.
func resultOf(data any) error {
	if marker, ok := data.(string); ok && marker == "OK" {
		return nil
	}
	if payload, ok := data.(map[string]any); ok {
		if message, ok := payload["error_message"].(string); ok && message != "" {
			return errors.New(message)
		}
	}
	return errors.New("error performing web flow login")
}

func origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", errors.New("invalid callback URL for web flow")
	}
	return u.Scheme + "://" + u.Host, nil
}
