package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath       string  `json:"selfpath"`
	Port           string  `json:"port"`
	Blocksize      int     `json:"blocksize"`      // 格子边长
	Boardsize      int     `json:"boardsize"`      // 棋盘边长
	TickInterval   int     `json:"tickinterval"`   // 刷新间隔，单位毫秒
	ScoreIncrement int     `json:"scoreincrement"` // 每个食物的得分
	StartX         int     `json:"startx"`
	StartY         int     `json:"starty"`
	Database       string  `json:"database"`
	Audio          bool    `json:"audio"`
	Volume         float64 `json:"volume"` // 0.0 - 1.0
}

var (
	instance *AppConfig
	once     sync.Once
	mu       sync.RWMutex
)

func defaults() *AppConfig {
	return &AppConfig{
		SelfPath:       "127.0.0.1:38870",
		Port:           "38870",
		Blocksize:      30,
		Boardsize:      600,
		TickInterval:   300,
		ScoreIncrement: 10,
		StartX:         270,
		StartY:         240,
		Database:       "game.db",
		Audio:          true,
		Volume:         0.5,
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) (*AppConfig, error) {
	var err error
	once.Do(func() {
		cfg := defaults()
		// Load the config file if it exists, otherwise create one
		if _, statErr := os.Stat(filePath); os.IsNotExist(statErr) {
			err = saveConfig(filePath, cfg)
		} else {
			err = loadConfig(filePath, cfg)
		}
		mu.Lock()
		instance = cfg
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	mu.RLock()
	defer mu.RUnlock()
	return instance, nil
}

// Reload re-reads the file into the loaded instance.
// A file that fails to parse leaves the current values untouched.
func Reload(filePath string) error {
	fresh := defaults()
	if err := loadConfig(filePath, fresh); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = fresh
		return nil
	}
	*instance = *fresh
	return nil
}

// loadConfig loads the settings from the file
func loadConfig(filePath string, into *AppConfig) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(into); err != nil {
		return fmt.Errorf("decode config %s: %w", filePath, err)
	}
	return nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Get returns a copy of the current configuration, or the defaults before LoadConfig.
func Get() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return *defaults()
	}
	return *instance
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	cfg := Get()
	switch key {
	case "selfpath":
		return cfg.SelfPath
	case "port":
		return cfg.Port
	case "blocksize":
		return cfg.Blocksize
	case "boardsize":
		return cfg.Boardsize
	case "tickinterval":
		return cfg.TickInterval
	case "scoreincrement":
		return cfg.ScoreIncrement
	case "startx":
		return cfg.StartX
	case "starty":
		return cfg.StartY
	case "database":
		return cfg.Database
	case "audio":
		return cfg.Audio
	case "volume":
		return cfg.Volume
	default:
		return ""
	}
}
