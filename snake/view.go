package snake

import "github.com/hoshinonyaruko/snake-fruits/structs"

// VisualState is the treatment applied to the whole board.
type VisualState int

const (
	Normal VisualState = iota
	Blurred
)

func (v VisualState) String() string {
	if v == Blurred {
		return "blurred"
	}
	return "normal"
}

// Renderer draws one frame. Calls between Clear and Present belong to the same frame.
type Renderer interface {
	Clear()
	DrawGridLines(boardSize, cellSize int)
	DrawCell(cell structs.Cell, color structs.Color)
	SetBoardVisualState(state VisualState)
	Present()
}

// FoodRenderer is implemented by renderers that give food its own look.
// Food falls back to DrawCell otherwise.
type FoodRenderer interface {
	DrawFood(cell structs.Cell, color structs.Color)
}

// AudioCue plays the eat sound. It must not block the tick.
type AudioCue interface {
	PlayEatSound()
}

// ScoreDisplay shows the running and the final score.
type ScoreDisplay interface {
	Show(score int)
	ShowFinal(score int)
}

// MenuUI is the game-over menu.
type MenuUI interface {
	Show()
	Hide()
}

// View bundles the presentation collaborators. Nil members are replaced by no-ops.
type View struct {
	Renderer Renderer
	Audio    AudioCue
	Score    ScoreDisplay
	Menu     MenuUI
}

func (v View) withDefaults() View {
	if v.Renderer == nil {
		v.Renderer = nopRenderer{}
	}
	if v.Audio == nil {
		v.Audio = nopAudio{}
	}
	if v.Score == nil {
		v.Score = nopScore{}
	}
	if v.Menu == nil {
		v.Menu = nopMenu{}
	}
	return v
}

type nopRenderer struct{}

func (nopRenderer) Clear() {}
func (nopRenderer) DrawGridLines(int, int) {}
func (nopRenderer) DrawCell(structs.Cell, structs.Color) {}
func (nopRenderer) SetBoardVisualState(VisualState) {}
func (nopRenderer) Present() {}

type nopAudio struct{}

func (nopAudio) PlayEatSound() {}

type nopScore struct{}

func (nopScore) Show(int) {}
func (nopScore) ShowFinal(int) {}

type nopMenu struct{}

func (nopMenu) Show() {}
func (nopMenu) Hide() {}
