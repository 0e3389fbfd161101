// 包 upload：登记图片落盘，文件名为上传时刻的 Unix 毫秒加原扩展名
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"patrio-api/internal/logger"
)

// MaxSize 单文件上限
const MaxSize = 10 << 20

// ErrTooLarge 超过 MaxSize
var ErrTooLarge = errors.New("upload: file too large")

// Saver：写入 Dir；返回的路径以 Dir 的 slash 形式开头（如 uploads/1700000000000.jpg）
type Saver struct {
	Dir string
	now func() time.Time
}

func NewSaver(dir string) (*Saver, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create dir: %w", err)
	}
	return &Saver{Dir: dir, now: time.Now}, nil
}

// 文档注释：保存上传内容
// 约束：同毫秒冲突时顺延 1ms 重试；超过 MaxSize 删除半成品并返回 ErrTooLarge。
func (s *Saver) Save(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	ms := s.now().UnixMilli()
	for attempt := 0; attempt < 16; attempt++ {
		name := strconv.FormatInt(ms+int64(attempt), 10) + ext
		full := filepath.Join(s.Dir, name)
		f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("upload: create: %w", err)
		}
		n, err := io.Copy(f, io.LimitReader(r, MaxSize+1))
		cerr := f.Close()
		if err == nil && n > MaxSize {
			err = ErrTooLarge
		}
		if err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(full)
			return "", err
		}
		logger.L().Debug("upload_saved", "file", name, "bytes", n)
		return path.Join(filepath.ToSlash(s.Dir), name), nil
	}
	return "", fmt.Errorf("upload: no free file name for %d", ms)
}

// Remove 删除 Save 返回的文件；仅接受 Dir 下的直接子文件，文件不存在视为成功
func (s *Saver) Remove(p string) error {
	name := path.Base(p)
	if p != path.Join(filepath.ToSlash(s.Dir), name) {
		return fmt.Errorf("upload: %q is outside %s", p, s.Dir)
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("upload: remove: %w", err)
	}
	return nil
}
