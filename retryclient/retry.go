// Package retryclient implements the calling application's half of the web
// flow: it wraps a remote call, recognizes the backend's structured
// "please re-authenticate" signal, runs the browser handshake, and replays
// the call exactly once.
package retryclient

import (
	"context"
	"encoding/json"
	"regexp"
)

// DefaultRetryErrorCode is the errorCode value the origin application embeds
// when it wants the caller to re-authenticate and retry.
const DefaultRetryErrorCode = "please_retry"

// jsonMessagePattern is a cheap structural check before attempting to decode
// an error message as a signal payload.
var jsonMessagePattern = regexp.MustCompile(`^\{.*"message":.*\}$`)

// WebFlow carries the two URLs needed to run the popup handshake.
type WebFlow struct {
	InitURL     string `json:"initUrl"`
	CallbackURL string `json:"callbackUrl"`
}

// Signal is the structured payload the origin application smuggles through an
// error message. It is consumed once and never persisted.
type Signal struct {
	ErrorCode string   `json:"errorCode"`
	Message   string   `json:"message"`
	WebFlow   *WebFlow `json:"webFlow,omitempty"`
}

// SignalError is the unwrapped form of a structured payload whose errorCode
// did not request a retry.
type SignalError struct {
	Signal *Signal
}

func (e *SignalError) Error() string {
	if e.Signal.Message != "" {
		return e.Signal.Message
	}
	return e.Signal.ErrorCode
}

// Call is the remote call being wrapped.
type Call func(ctx context.Context) (json.RawMessage, error)

// HandshakeFunc completes the browser popup handshake for a web flow. A nil
// return means the flow finished successfully and the call may be replayed.
type HandshakeFunc func(ctx context.Context, flow WebFlow) error

// Wrapper replays a failed call at most once after completing the handshake.
type Wrapper struct {
	handshake HandshakeFunc
	retryCode string
}

type Option func(*Wrapper)

// WithRetryErrorCode overrides the errorCode treated as a retry request.
func WithRetryErrorCode(code string) Option {
	return func(w *Wrapper) { w.retryCode = code }
}

func New(handshake HandshakeFunc, opts ...Option) *Wrapper {
	w := &Wrapper{handshake: handshake, retryCode: DefaultRetryErrorCode}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Do runs the call, and on a retry signal replays it exactly once. The retried
// flag is a one-way transition: a second failure propagates untouched, so
// there are no retry chains.
func (w *Wrapper) Do(ctx context.Context, call Call) (json.RawMessage, error) {
	retried := false
	for {
		result, err := call(ctx)
		if err == nil || retried {
			return result, err
		}

		signal, ok := decodeSignal(err)
		if !ok {
			return nil, err
		}
		if signal.ErrorCode != w.retryCode {
			return nil, &SignalError{Signal: signal}
		}

		if signal.WebFlow != nil {
			if err := w.handshake(ctx, *signal.WebFlow); err != nil {
				return nil, err
			}
		}
		// No other retry reasons exist yet; a signal without a web flow
		// still earns its single replay.
		retried = true
	}
}

func decodeSignal(err error) (*Signal, bool) {
	message := err.Error()
	if !jsonMessagePattern.MatchString(message) {
		return nil, false
	}
	var signal Signal
	if json.Unmarshal([]byte(message), &signal) != nil {
		return nil, false
	}
	return &signal, true
}
