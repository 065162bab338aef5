package shortener_test

import (
	"sync"
	"time"

	"github.com/hariprasanth02/2203031240132/internal/shortener"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type recordingSink struct {
	mu     sync.Mutex
	events []shortener.Event
}

func (s *recordingSink) Log(event shortener.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
}

func (s *recordingSink) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]string, 0, len(s.events))
	for _, e := range s.events {
		msgs = append(msgs, e.Msg)
	}

	return msgs
}

type panickingSink struct{}

func (panickingSink) Log(shortener.Event) {
	panic("sink exploded")
}

// scriptedDraw returns the given codes in order, then repeats the last one.
func scriptedDraw(codes ...string) shortener.Draw {
	var (
		mu sync.Mutex
		i  int
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		code := codes[min(i, len(codes)-1)]
		i++

		return code
	}
}
