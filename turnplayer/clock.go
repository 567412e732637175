package turnplayer

import (
	"sync"
	"time"

	"github.com/domino14/qubic/board"
)

// DefaultAllowance is the total thinking time of one player for a game.
const DefaultAllowance = 3 * time.Minute

// Clocked adds up the time a Mover spends in NextMove. It never interrupts
// the mover; whoever runs the game decides what an expired clock means.
type Clocked struct {
	Mover

	mu        sync.Mutex
	allowance time.Duration
	used      time.Duration
	moveStart time.Time
	thinking  bool
	now       func() time.Time
}

func NewClocked(m Mover, allowance time.Duration) *Clocked {
	return &Clocked{Mover: m, allowance: allowance, now: time.Now}
}

func (c *Clocked) NextMove(last board.Coord) (board.Coord, error) {
	c.mu.Lock()
	c.thinking = true
	c.moveStart = c.now()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.used += c.now().Sub(c.moveStart)
		c.thinking = false
		c.mu.Unlock()
	}()
	return c.Mover.NextMove(last)
}

func (c *Clocked) NewGame() {
	c.mu.Lock()
	c.used = 0
	c.thinking = false
	c.mu.Unlock()
	c.Mover.NewGame()
}

// TimeUsed includes the move in progress, if any.
func (c *Clocked) TimeUsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.thinking {
		return c.used + c.now().Sub(c.moveStart)
	}
	return c.used
}

func (c *Clocked) Remaining() time.Duration {
	return c.allowance - c.TimeUsed()
}

func (c *Clocked) Expired() bool {
	return c.Remaining() < 0
}

func (c *Clocked) Allowance() time.Duration {
	return c.allowance
}
