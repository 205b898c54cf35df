package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
)

var _ output.CheckpointSink = (*Shots)(nil)

// Shots persists named checkpoint screenshots during a pass, one JPEG per
// checkpoint, prefixed with the document being processed. Capture failures
// are logged and swallowed: a missing screenshot must never fail a pass.
type Shots struct {
	adapter *Adapter
	dir     string
	log     *zap.Logger

	mu     sync.Mutex
	prefix string
	seq    int
}

func NewShots(adapter *Adapter, dir string, log *zap.Logger) *Shots {
	return &Shots{adapter: adapter, dir: dir, log: log, prefix: "run"}
}

// SetPrefix names the shots after the current document. Resets the sequence.
func (s *Shots) SetPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prefix != "" {
		s.prefix = sanitizeName(prefix)
	}
	s.seq = 0
}

func (s *Shots) Checkpoint(ctx context.Context, name string) {
	img, err := s.capture(ctx)
	if err != nil {
		s.log.Debug("checkpoint capture failed", zap.String("name", name), zap.Error(err))
		return
	}

	s.mu.Lock()
	s.seq++
	path := filepath.Join(s.dir, fmt.Sprintf("%s_%03d_%s.jpg", s.prefix, s.seq, sanitizeName(name)))
	s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Warn("screenshot dir not writable", zap.Error(err))
		return
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(75)); err != nil {
		s.log.Warn("screenshot save failed", zap.String("path", path), zap.Error(err))
		return
	}
	s.log.Debug("checkpoint saved", zap.String("path", path))
}

func (s *Shots) capture(ctx context.Context) (image.Image, error) {
	raw, err := s.adapter.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if img.Bounds().Dx() > 1440 {
		img = imaging.Resize(img, 1440, 0, imaging.Lanczos)
	}
	return img, nil
}

func sanitizeName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "shot"
	}
	if len(out) > 60 {
		out = out[:60]
	}
	return string(out)
}
