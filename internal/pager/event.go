package pager

import "fmt"

// Event kinds accepted from clients.
const (
	EventTouchStart = "touchstart"
	EventTouchMove  = "touchmove"
	EventTouchEnd   = "touchend"
	EventSetPage    = "page"
)

// Event is a gesture or navigation input sent by a client.
type Event struct {
	Kind          string  `json:"kind"`
	Touches       []Point `json:"touches,omitempty"`
	ViewportWidth float64 `json:"viewportWidth,omitempty"`
	Page          int     `json:"page,omitempty"`
}

// Apply dispatches ev to the matching pager operation.
func (p *Pager) Apply(ev Event) (Frame, error) {
	switch ev.Kind {
	case EventTouchStart:
		return p.TouchStart(ev.Touches), nil
	case EventTouchMove:
		return p.TouchMove(ev.Touches, ev.ViewportWidth), nil
	case EventTouchEnd:
		return p.TouchEnd(), nil
	case EventSetPage:
		return p.SetPage(ev.Page), nil
	default:
		return Frame{}, fmt.Errorf("unknown pager event %q", ev.Kind)
	}
}
