package snake

import (
	"context"
	"errors"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-fruits/structs"
)

// ErrStopped is returned by Loop methods once Run has returned.
var ErrStopped = errors.New("snake: loop stopped")

type command struct {
	run  func() (arm bool)
	done chan struct{}
}

// Loop owns a Game on a single goroutine and ticks it with a timer that is
// re-armed only after the previous tick has finished, so ticks never overlap.
// Input, restarts and snapshots are posted to the same goroutine.
type Loop struct {
	game     *Game
	interval time.Duration

	commands  chan command
	stopped   chan struct{}
	stopOnce  sync.Once
	observers []func(structs.Snapshot)
}

// NewLoop creates a loop ticking game every interval.
func NewLoop(game *Game, interval time.Duration) *Loop {
	return &Loop{
		game:     game,
		interval: interval,
		commands: make(chan command),
		stopped:  make(chan struct{}),
	}
}

// OnTick registers fn to receive a snapshot after every tick and every restart.
// Observers run on the loop goroutine and must be registered before Run;
// slow work such as disk writes belongs on another goroutine.
func (l *Loop) OnTick(fn func(structs.Snapshot)) {
	l.observers = append(l.observers, fn)
}

// Run ticks immediately and then keeps ticking until ctx is done.
// After a game over the timer stays disarmed until Restart.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.stopped) })

	armed := !l.game.State().GameOver
	var timer *time.Timer
	if armed {
		timer = time.NewTimer(0)
	} else {
		timer = time.NewTimer(l.interval)
		timer.Stop()
	}
	defer timer.Stop()

	for {
		var tickC <-chan time.Time
		if armed {
			tickC = timer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-l.commands:
			arm := cmd.run()
			close(cmd.done)
			if arm && !armed {
				armed = true
				timer.Reset(0)
			}

		case <-tickC:
			armed = l.tick()
			l.notify()
			if armed {
				timer.Reset(l.interval)
			}
		}
	}
}

// tick runs one game tick, turning a panic into a game over.
func (l *Loop) tick() (rearm bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tick panicked: %v\n%s", r, debug.Stack())
			l.game.Abort(r)
			rearm = false
		}
	}()
	return l.game.Tick()
}

func (l *Loop) notify() {
	if len(l.observers) == 0 {
		return
	}
	snap := l.game.Snapshot()
	for _, fn := range l.observers {
		observe(fn, snap)
	}
}

// observe calls one observer; a panicking observer is logged and skipped.
func observe(fn func(structs.Snapshot), snap structs.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tick observer panicked: %v\n%s", r, debug.Stack())
		}
	}()
	fn(snap)
}

// do runs fn on the loop goroutine and waits for it.
func (l *Loop) do(fn func() bool) error {
	cmd := command{run: fn, done: make(chan struct{})}
	select {
	case l.commands <- cmd:
	case <-l.stopped:
		return ErrStopped
	}
	<-cmd.done
	return nil
}

// Steer requests a new direction, see Game.Steer.
func (l *Loop) Steer(d structs.Direction) (accepted bool, err error) {
	err = l.do(func() bool {
		accepted = l.game.Steer(d)
		return false
	})
	return accepted, err
}

// Restart resets the game and resumes ticking.
func (l *Loop) Restart() error {
	return l.do(func() bool {
		l.game.Restart()
		l.notify()
		return true
	})
}

// Snapshot returns a copy of the current state.
func (l *Loop) Snapshot() (snap structs.Snapshot, err error) {
	err = l.do(func() bool {
		snap = l.game.Snapshot()
		return false
	})
	return snap, err
}

// SetInterval changes the delay used from the next re-arm on.
func (l *Loop) SetInterval(d time.Duration) error {
	if d <= 0 {
		return errors.New("snake: tick interval must be positive")
	}
	return l.do(func() bool {
		l.interval = d
		return false
	})
}
