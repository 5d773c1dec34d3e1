// Package session generates identifiers for capture sessions and the
// segments emitted within them.
package session

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// NewID returns a fresh session identifier.
func NewID() string {
	return "ses-" + uuid.NewString()
}

// Generator hands out monotonically numbered segment IDs scoped to a
// session. Safe for concurrent use.
type Generator struct {
	counter uint64
}

func NewGenerator() *Generator {
	return &Generator{}
}

// Next returns the next segment ID for the given session.
func (g *Generator) Next(sessionId string) string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("%s-seg-%d", sessionId, n)
}
