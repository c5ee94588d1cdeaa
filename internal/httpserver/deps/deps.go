package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/sip/internal/domain"
	"github.com/MrSnakeDoc/sip/internal/logger"
	"github.com/MrSnakeDoc/sip/internal/realtime"
	"github.com/MrSnakeDoc/sip/internal/tracker"
)

// Pinger reports whether the storage substrate is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	AllowedCIDRS []string           // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins  []string           // origins allowed to call the JSON API, empty = same origin only
	RateBurst    int                // API token bucket size per client IP
	RatePerMin   int                // API refill rate per client IP
	Tracker      *tracker.Tracker   // owns the state and all mutations
	Store        Pinger             // storage substrate, probed by readyz
	Catalog      []domain.DrinkType // drink types offered by the add form
	Hub          *realtime.Hub      // websocket clients
}
