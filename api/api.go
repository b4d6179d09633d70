package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-fruits/config"
	"github.com/hoshinonyaruko/snake-fruits/memimg"
	"github.com/hoshinonyaruko/snake-fruits/snake"
	"github.com/hoshinonyaruko/snake-fruits/structs"
)

// 渲染图片保存位置，由 /static 提供访问
const (
	StaticDir  = "./static"
	BoardImage = "board.png"
)

// Game is what the handlers need from snake.Loop.
type Game interface {
	Steer(d structs.Direction) (bool, error)
	Restart() error
	Snapshot() (structs.Snapshot, error)
}

// NewRouter registers every endpoint on a fresh gin engine.
func NewRouter(game Game) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(game))
	// 重新开始
	router.GET("/play", Play(game))
	// 渲染函数 返回静态地址
	router.GET("/render-map", RenderMapHandler(game, StaticDir))
	router.GET("/frame.png", FrameHandler())
	router.GET("/state", StateHandler(game))
	router.Static("/static", StaticDir) // 静态文件服务
	return router
}

func loopError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, snake.ErrStopped) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func UpdateDirection(game Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		newDirection := c.Query("direction")
		if newDirection == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: direction"})
			return
		}

		// 接受 up/down/left/right 以及键名 ArrowUp、w 等
		d, ok := snake.KeyDirection(newDirection)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid direction '%s' provided", newDirection)})
			return
		}

		accepted, err := game.Steer(d)
		if err != nil {
			loopError(c, err)
			return
		}
		if !accepted {
			// 反向或游戏已结束
			c.JSON(http.StatusOK, gin.H{"message": "Direction ignored", "accepted": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Direction updated successfully", "accepted": true})
	}
}

func Play(game Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := game.Restart(); err != nil {
			loopError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Game restarted"})
	}
}

// RenderMapHandler saves the latest frame under dir and answers with its public address.
func RenderMapHandler(game Game, dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := game.Snapshot()
		if err != nil {
			loopError(c, err)
			return
		}

		frame, ok := memimg.GetFrameFromMemory()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame rendered yet"})
			return
		}
		if err := memimg.SaveFrame(filepath.Join(dir, BoardImage)); err != nil {
			log.Printf("save frame: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to save board image"})
			return
		}

		// 带版本号避免 IM 客户端缓存旧图
		imageURL := fmt.Sprintf("http://%s/static/%s?v=%d", config.GetConfigValue("selfpath").(string), BoardImage, frame.Version)
		c.JSON(http.StatusOK, gin.H{
			"image_url": imageURL,
			"score":     snap.Score,
			"game_over": snap.GameOver,
		})
	}
}

func FrameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		frame, ok := memimg.GetFrameFromMemory()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame rendered yet"})
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Header("Last-Modified", frame.Updated.UTC().Format(http.TimeFormat))
		c.Data(http.StatusOK, "image/png", frame.PNG)
	}
}

func StateHandler(game Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := game.Snapshot()
		if err != nil {
			loopError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}
