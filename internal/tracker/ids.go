package tracker

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gofrs/uuid/v5"
)

// NewID returns a random UUIDv4, falling back to a time+random token
// when the system entropy source fails.
func NewID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return fallbackID(time.Now())
	}
	return id.String()
}

func fallbackID(now time.Time) string {
	return fmt.Sprintf("%d-%016x", now.UnixMilli(), rand.Uint64())
}
