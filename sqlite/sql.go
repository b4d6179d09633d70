package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hoshinonyaruko/snake-fruits/structs"
	_ "github.com/mattn/go-sqlite3"
)

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS Sessions (
    SessionID TEXT PRIMARY KEY,
    Snake TEXT,
    Food TEXT,
    Direction TEXT,
    Score INTEGER,
    GameOver INTEGER,
    UpdatedAt TIMESTAMP
);
`

const createSessionsIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_session_updated ON Sessions (UpdatedAt);
`

// Open opens the database file and creates the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// go-sqlite3 serialises writers anyway
	db.SetMaxOpenConns(1)
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func executeSQL(db *sql.DB, sqlStatement string) error {
	if _, err := db.Exec(sqlStatement); err != nil {
		return fmt.Errorf("executing SQL statement %q: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	for _, stmt := range []string{createSessionsTableSQL, createSessionsIndexSQL} {
		if err := executeSQL(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot stores snap under its SessionID, replacing the previous one.
func SaveSnapshot(db *sql.DB, snap structs.Snapshot) error {
	if snap.SessionID == "" {
		return fmt.Errorf("snapshot has no session id")
	}
	snakeData, err := json.Marshal(snap.Snake)
	if err != nil {
		return err
	}
	foodData, err := json.Marshal(snap.Food)
	if err != nil {
		return err
	}

	// 开启事务
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	_, err = tx.Exec("INSERT OR REPLACE INTO Sessions (SessionID, Snake, Food, Direction, Score, GameOver, UpdatedAt) VALUES (?, ?, ?, ?, ?, ?, ?)",
		snap.SessionID, string(snakeData), string(foodData), snap.Direction.String(), snap.Score, snap.GameOver, time.Now().UTC())
	if err != nil {
		tx.Rollback()
		return err
	}
	// 提交事务
	return tx.Commit()
}

// LoadSnapshot reads a session. found is false when the session does not exist.
func LoadSnapshot(db *sql.DB, sessionID string) (snap structs.Snapshot, found bool, err error) {
	var snakeData, foodData, direction string
	err = db.QueryRow("SELECT SessionID, Snake, Food, Direction, Score, GameOver FROM Sessions WHERE SessionID = ?", sessionID).Scan(
		&snap.SessionID, &snakeData, &foodData, &direction, &snap.Score, &snap.GameOver,
	)
	if err == sql.ErrNoRows {
		return structs.Snapshot{}, false, nil
	}
	if err != nil {
		return structs.Snapshot{}, false, err
	}

	if err := json.Unmarshal([]byte(snakeData), &snap.Snake); err != nil {
		return structs.Snapshot{}, false, fmt.Errorf("decode snake of %s: %w", sessionID, err)
	}
	if err := json.Unmarshal([]byte(foodData), &snap.Food); err != nil {
		return structs.Snapshot{}, false, fmt.Errorf("decode food of %s: %w", sessionID, err)
	}
	if snap.Direction, err = structs.ParseDirection(direction); err != nil {
		return structs.Snapshot{}, false, err
	}
	return snap, true, nil
}

// LatestSession returns the id of the most recently saved session.
func LatestSession(db *sql.DB) (string, bool, error) {
	var id string
	err := db.QueryRow("SELECT SessionID FROM Sessions ORDER BY UpdatedAt DESC LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Journal saves snapshots of one session on its own goroutine.
// Record never blocks the caller; when writes fall behind only the newest snapshot is kept.
type Journal struct {
	db        *sql.DB
	sessionID string
	pending   chan structs.Snapshot
}

func NewJournal(db *sql.DB, sessionID string) *Journal {
	return &Journal{db: db, sessionID: sessionID, pending: make(chan structs.Snapshot, 1)}
}

// SessionID is the session the journal writes to.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Record queues snap for saving. It has the shape of a snake.Loop observer
// and must be called from one goroutine.
func (j *Journal) Record(snap structs.Snapshot) {
	snap.SessionID = j.sessionID
	for {
		select {
		case j.pending <- snap:
			return
		default:
		}
		// 丢弃尚未写入的旧快照
		select {
		case <-j.pending:
		default:
		}
	}
}

// Run writes queued snapshots until ctx is done, then saves whatever is still queued.
func (j *Journal) Run(ctx context.Context) error {
	for {
		select {
		case snap := <-j.pending:
			j.save(snap)
		case <-ctx.Done():
			select {
			case snap := <-j.pending:
				j.save(snap)
			default:
			}
			return nil
		}
	}
}

func (j *Journal) save(snap structs.Snapshot) {
	if err := SaveSnapshot(j.db, snap); err != nil {
		log.Printf("save session %s: %v", j.sessionID, err)
	}
}
