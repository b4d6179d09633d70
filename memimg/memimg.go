// 最新一帧棋盘图像的内存缓存
package memimg

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Frame is the PNG encoding of one rendered board image.
type Frame struct {
	PNG     []byte
	Version uint64
	Updated time.Time
}

var (
	frame      Frame
	frameMutex sync.RWMutex
)

// StoreFrame encodes img and makes it the latest frame.
func StoreFrame(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	frameMutex.Lock()
	frame = Frame{
		PNG:     buf.Bytes(),
		Version: frame.Version + 1,
		Updated: time.Now(),
	}
	frameMutex.Unlock()
	return nil
}

// GetFrameFromMemory returns the latest frame. ok is false before the first StoreFrame.
func GetFrameFromMemory() (Frame, bool) {
	frameMutex.RLock()
	defer frameMutex.RUnlock()
	return frame, frame.Version > 0
}

// SaveFrame writes the latest frame as a PNG file, creating parent folders as needed.
// The file is written next to path and renamed into place, so readers never see a partial image.
func SaveFrame(path string) error {
	f, ok := GetFrameFromMemory()
	if !ok {
		return fmt.Errorf("no frame rendered yet")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(f.PNG); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
