package structs

import "fmt"

// Cell 描述棋盘上一个按格子对齐的坐标。
type Cell struct {
	X int `json:"x"` // X坐标，cell size 的整数倍
	Y int `json:"y"` // Y坐标，cell size 的整数倍
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Color is an 8-bit RGB triple.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Food 描述食物的位置和颜色。
type Food struct {
	Cell  Cell  `json:"cell"`
	Color Color `json:"color"`
}

// Snapshot 描述一局游戏的完整状态，用于持久化和接口返回。
type Snapshot struct {
	SessionID string    `json:"session_id"`
	Snake     []Cell    `json:"snake"`     // 尾在前，头在最后
	Food      Food      `json:"food"`
	Direction Direction `json:"direction"` // 已生效的方向
	Score     int       `json:"score"`
	GameOver  bool      `json:"game_over"`
}

// Head returns the last cell of the snake body.
func (s Snapshot) Head() Cell {
	if len(s.Snake) == 0 {
		return Cell{}
	}
	return s.Snake[len(s.Snake)-1]
}
