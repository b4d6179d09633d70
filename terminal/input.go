package terminal

import (
	"context"
	"errors"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/snake-fruits/snake"
	"github.com/hoshinonyaruko/snake-fruits/structs"
)

// ErrQuit is returned by Poll when the player asks to leave.
var ErrQuit = errors.New("terminal: quit requested")

// Controller is the part of snake.Loop the keyboard drives.
type Controller interface {
	Steer(d structs.Direction) (bool, error)
	Restart() error
}

// Action is what a key asks of the game.
type Action int

const (
	ActionNone Action = iota
	ActionSteer
	ActionRestart
	ActionQuit
)

var arrowKeys = map[tcell.Key]string{
	tcell.KeyUp:    "ArrowUp",
	tcell.KeyDown:  "ArrowDown",
	tcell.KeyLeft:  "ArrowLeft",
	tcell.KeyRight: "ArrowRight",
}

// Translate maps a key press to an action. The direction is set for ActionSteer only.
func Translate(key tcell.Key, r rune) (Action, structs.Direction) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, structs.None
	case tcell.KeyEnter:
		return ActionRestart, structs.None
	case tcell.KeyRune:
		switch r {
		case 'q':
			return ActionQuit, structs.None
		case 'p':
			return ActionRestart, structs.None
		}
		if d, ok := snake.KeyDirection(string(r)); ok {
			return ActionSteer, d
		}
		return ActionNone, structs.None
	}
	if name, ok := arrowKeys[key]; ok {
		d, _ := snake.KeyDirection(name)
		return ActionSteer, d
	}
	return ActionNone, structs.None
}

// Poll feeds key events to ctrl until ctx is done, the screen closes, or the player quits.
func Poll(ctx context.Context, screen tcell.Screen, ctrl Controller) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			// PollEvent has no context, wake it up
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			action, d := Translate(ev.Key(), ev.Rune())
			switch action {
			case ActionQuit:
				return ErrQuit
			case ActionRestart:
				if err := ctrl.Restart(); err != nil {
					return err
				}
			case ActionSteer:
				if _, err := ctrl.Steer(d); err != nil {
					return err
				}
			}
		case *tcell.EventError:
			log.Printf("terminal event error: %v", ev)
		}
	}
}
