package notify

import (
	"sync"
	"time"

	"github.com/dtroode/coined/internal/metrics"
	"github.com/dtroode/coined/internal/model"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 2800 * time.Millisecond

// Channel is a single-slot notification queue. A new notice replaces the
// visible one at once and each notice clears itself after the TTL.
type Channel struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	current  *model.Notice
	timer    *time.Timer
	seq      uint64
	closed   bool
	onChange func(model.Notice, bool)
}

var _ model.Notifier = (*Channel)(nil)

// Option configures a Channel.
type Option func(*Channel)

// WithClock overrides the time source used for expiry stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Channel) { c.now = now }
}

// WithOnChange registers fn to be called after every publish and clear.
// The second argument is false when the slot became empty.
func WithOnChange(fn func(model.Notice, bool)) Option {
	return func(c *Channel) { c.onChange = fn }
}

// New creates a Channel whose notices expire after ttl.
func New(ttl time.Duration, opts ...Option) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Channel{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish shows message, pre-empting any visible notice.
func (c *Channel) Publish(message string, kind model.NoticeKind) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.seq++
	seq := c.seq
	n := model.Notice{Message: message, Kind: kind, ExpiresAt: c.now().Add(c.ttl)}
	c.current = &n
	c.timer = time.AfterFunc(c.ttl, func() { c.expire(seq) })
	onChange := c.onChange
	c.mu.Unlock()

	metrics.Notifications.WithLabelValues(string(kind)).Inc()
	if onChange != nil {
		onChange(n, true)
	}
}

// Current returns the visible notice.
func (c *Channel) Current() (model.Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return model.Notice{}, false
	}
	return *c.current, true
}

// Clear hides the visible notice.
func (c *Channel) Clear() {
	c.mu.Lock()
	c.seq++
	c.clearLocked()
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(model.Notice{}, false)
	}
}

// Close stops the pending expiry timer. Later publishes are ignored.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.clearLocked()
}

func (c *Channel) expire(seq uint64) {
	c.mu.Lock()
	if seq != c.seq || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.timer = nil
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(model.Notice{}, false)
	}
}

func (c *Channel) clearLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
}
