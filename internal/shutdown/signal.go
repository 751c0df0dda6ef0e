// Package shutdown provides the process-wide cooperative cancellation flag.
package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
)

// Signal is a one-way flag: once set it stays set. IsSet never blocks and
// Done lets waiters be woken as soon as the flag flips.
type Signal struct {
	set  atomic.Bool
	once sync.Once
	done chan struct{}
}

func New() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Set raises the flag. Calling it more than once is a no-op.
func (s *Signal) Set() {
	s.once.Do(func() {
		s.set.Store(true)
		close(s.done)
	})
}

// IsSet reports whether the flag has been raised.
func (s *Signal) IsSet() bool {
	return s.set.Load()
}

// Done is closed when the flag is raised.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Notify raises sig on the first of the given OS signals. The returned
// function uninstalls the handler.
func Notify(sig *Signal, onSignal func(os.Signal), signals ...os.Signal) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)
	quit := make(chan struct{})

	go func() {
		select {
		case received := <-ch:
			if onSignal != nil {
				onSignal(received)
			}
			sig.Set()
		case <-quit:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(quit)
		})
	}
}
