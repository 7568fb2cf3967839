package stage

// Stage is a discrete, ordered phase of the reveal.
type Stage int

const DefaultTerminal Stage = 5

// Observer is called after every stage change with the previous and new value.
type Observer func(prev, next Stage)

type subscription struct {
	id uint64
	fn Observer
}

// Controller owns the canonical stage value. Advance is the only mutator;
// it moves one step forward and saturates at the terminal stage.
type Controller struct {
	current  Stage
	terminal Stage

	subs   []subscription
	nextID uint64

	notifying bool
	queued    int
}

func New(terminal Stage) *Controller {
	if terminal < 1 {
		terminal = DefaultTerminal
	}
	return &Controller{terminal: terminal}
}

func (c *Controller) Current() Stage { return c.current }

func (c *Controller) Terminal() Stage { return c.terminal }

func (c *Controller) AtTerminal() bool { return c.current >= c.terminal }

// Advance increments the stage and notifies every observer synchronously.
// At the terminal stage it is a no-op. An Advance issued by an observer
// runs after all observers have seen the change in progress.
func (c *Controller) Advance() {
	if c.notifying {
		c.queued++
		return
	}
	c.step()
	for c.queued > 0 {
		c.queued--
		c.step()
	}
}

func (c *Controller) step() {
	if c.current >= c.terminal {
		c.queued = 0
		return
	}
	prev := c.current
	c.current++
	c.notify(prev, c.current)
}

func (c *Controller) notify(prev, next Stage) {
	c.notifying = true
	defer func() { c.notifying = false }()

	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	for _, s := range subs {
		if c.subscribed(s.id) {
			s.fn(prev, next)
		}
	}
}

// Subscribe registers fn and returns an idempotent unsubscribe function.
func (c *Controller) Subscribe(fn Observer) func() {
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	return func() { c.unsubscribe(id) }
}

func (c *Controller) Observers() int { return len(c.subs) }

func (c *Controller) subscribed(id uint64) bool {
	for _, s := range c.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

func (c *Controller) unsubscribe(id uint64) {
	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}
