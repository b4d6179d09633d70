package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-fruits/api"
	"github.com/hoshinonyaruko/snake-fruits/audio"
	"github.com/hoshinonyaruko/snake-fruits/canvas"
	"github.com/hoshinonyaruko/snake-fruits/config"
	"github.com/hoshinonyaruko/snake-fruits/snake"
	"github.com/hoshinonyaruko/snake-fruits/sqlite"
	"github.com/hoshinonyaruko/snake-fruits/structs"
	"github.com/hoshinonyaruko/snake-fruits/terminal"
	"golang.org/x/sync/errgroup"
)

var (
	frontendFlag = flag.String("frontend", "web", "front-end: web or terminal")
	configFlag   = flag.String("config", "./config.json", "path of the config file")
	sessionFlag  = flag.String("session", "", "resume this session id")
	newFlag      = flag.Bool("new", false, "start a new session instead of resuming the latest one")
	debugFlag    = flag.Bool("debug", false, "terminal front-end: write logs to "+logDir+"/"+logFileName)
)

func main() {
	flag.Parse()
	if *frontendFlag != "web" && *frontendFlag != "terminal" {
		log.Fatalf("unknown front-end %q", *frontendFlag)
	}

	if *frontendFlag == "terminal" {
		// 终端模式下日志不能写到屏幕上
		if logFile := setupLogging(*debugFlag); logFile != nil {
			defer logFile.Close()
		}
	}

	EnsureFoldersExist()
	// Initialize the configuration
	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sqlite.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	snap, resumed := resumeSession(db, *sessionFlag, *newFlag)
	if snap.SessionID == "" {
		snap.SessionID = uuid.New().String()
	}

	settings := snake.Settings{
		CellSize:       cfg.Blocksize,
		BoardSize:      cfg.Boardsize,
		ScoreIncrement: cfg.ScoreIncrement,
		Start:          structs.Cell{X: cfg.StartX, Y: cfg.StartY},
	}

	cue := audio.NewCue(cfg.Volume)
	if cfg.Audio {
		if err := cue.Init(); err != nil {
			log.Printf("audio unavailable, continuing without sound: %v", err)
		}
	}
	defer cue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var screen tcell.Screen
	var view snake.View
	if *frontendFlag == "terminal" {
		screen, err = tcell.NewScreen()
		if err != nil {
			log.Fatalf("create screen: %v", err)
		}
		if err := screen.Init(); err != nil {
			log.Fatalf("init screen: %v", err)
		}
		defer screen.Fini()
		view = terminal.New(screen, settings.BoardSize, settings.CellSize).View()
	} else {
		view = canvas.New(settings.BoardSize, settings.CellSize).View()
	}
	view.Audio = cue

	game, err := snake.New(settings, view, nil)
	if err != nil {
		log.Fatalf("create game: %v", err)
	}
	if resumed {
		if err := game.Restore(snap); err != nil {
			log.Printf("session %s cannot be restored, starting fresh: %v", snap.SessionID, err)
		}
	}

	loop := snake.NewLoop(game, time.Duration(cfg.TickInterval)*time.Millisecond)
	journal := sqlite.NewJournal(db, snap.SessionID)
	loop.OnTick(journal.Record)
	if resumed {
		log.Printf("resumed session %s: score %d, head %v", journal.SessionID(), snap.Score, snap.Head())
	} else {
		log.Printf("new session %s", journal.SessionID())
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(ctx)
	})
	g.Go(func() error {
		return journal.Run(ctx)
	})
	g.Go(func() error {
		// 热更新: 刷新间隔和音量即时生效，棋盘参数需要重启
		return config.Watch(ctx, *configFlag, func(fresh config.AppConfig) {
			if err := loop.SetInterval(time.Duration(fresh.TickInterval) * time.Millisecond); err != nil {
				log.Printf("tick interval %d ignored: %v", fresh.TickInterval, err)
			}
			cue.SetVolume(fresh.Volume)
		})
	})

	if screen != nil {
		g.Go(func() error {
			err := terminal.Poll(ctx, screen, loop)
			stop()
			if errors.Is(err, terminal.ErrQuit) {
				return nil
			}
			return err
		})
	} else {
		server := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: api.NewRouter(loop),
		}
		g.Go(func() error {
			// 从配置单例读取端口 监听
			log.Printf("listening on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("stopped: %v", err)
	}
}

// resumeSession finds the snapshot to continue. resumed is false for a fresh game.
func resumeSession(db *sql.DB, sessionID string, fresh bool) (snap structs.Snapshot, resumed bool) {
	if fresh {
		return structs.Snapshot{}, false
	}
	if sessionID == "" {
		latest, found, err := sqlite.LatestSession(db)
		if err != nil {
			log.Printf("look up latest session: %v", err)
			return structs.Snapshot{}, false
		}
		if !found {
			return structs.Snapshot{}, false
		}
		sessionID = latest
	}

	snap, found, err := sqlite.LoadSnapshot(db, sessionID)
	if err != nil {
		log.Printf("load session %s: %v", sessionID, err)
		return structs.Snapshot{SessionID: sessionID}, false
	}
	if !found {
		// 指定的新会话 id
		return structs.Snapshot{SessionID: sessionID}, false
	}
	return snap, true
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist() {
	folders := []string{api.StaticDir, logDir}

	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			if err := os.MkdirAll(folder, 0755); err != nil {
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		}
	}
}
