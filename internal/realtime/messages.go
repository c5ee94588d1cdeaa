package realtime

import (
	"github.com/MrSnakeDoc/sip/internal/pager"
	"github.com/MrSnakeDoc/sip/internal/render"
)

// Message types pushed to clients.
const (
	TypeState = "state"
	TypePager = "pager"
	TypeError = "error"
)

// Message is the envelope of every server push.
type Message struct {
	Type    string       `json:"type"`
	View    *render.View `json:"view,omitempty"`
	Frame   *pager.Frame `json:"frame,omitempty"`
	Initial bool         `json:"initial,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// StateMessage carries a fresh view. Initial marks the snapshot sent right
// after connecting, which clients already rendered.
func StateMessage(v render.View, initial bool) Message {
	return Message{Type: TypeState, View: &v, Initial: initial}
}

func PagerMessage(f pager.Frame) Message {
	return Message{Type: TypePager, Frame: &f}
}

func ErrorMessage(err error) Message {
	return Message{Type: TypeError, Error: err.Error()}
}
