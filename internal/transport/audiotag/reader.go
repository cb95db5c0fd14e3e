// Package audiotag reads sample metadata (BPM, key, title, genre) from audio file tags via TagLib.
package audiotag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.senan.xyz/taglib"
	"go.uber.org/zap"

	"github.com/AndiJegeni/cuemusic/internal/domain/sound"
	"github.com/AndiJegeni/cuemusic/internal/logger"
)

// Property names not exported as constants by taglib.
const (
	tagBPM        = "BPM"
	tagInitialKey = "INITIALKEY"
)

// DefaultMaxBytes caps an uploaded file.
const DefaultMaxBytes = 32 << 20

// ErrTooLarge is returned when the upload exceeds the configured cap.
var ErrTooLarge = errors.New("audio file too large")

// Reader implements usecase/sound.TagReader.
// TagLib works on paths, so uploads are spooled to a temp file first.
type Reader struct {
	dir      string
	maxBytes int64
}

// New creates a Reader. dir is the spool directory ("" = os.TempDir()).
func New(dir string, maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Reader{dir: dir, maxBytes: maxBytes}
}

// Read spools r to disk and extracts its tags. filename only contributes the extension.
func (rd *Reader) Read(ctx context.Context, r io.Reader, filename string) (sound.Metadata, error) {
	path, err := rd.spool(r, filepath.Ext(filename))
	if err != nil {
		return sound.Metadata{}, err
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			logger.FromContext(ctx).Warn("remove spooled audio", zap.String("path", path), zap.Error(rmErr))
		}
	}()

	if err := ctx.Err(); err != nil {
		return sound.Metadata{}, err
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		return sound.Metadata{}, fmt.Errorf("read tags: %w", err)
	}

	md := FromTags(tags)
	logger.FromContext(ctx).Debug("audio tags read",
		zap.String("filename", filename),
		zap.String("title", md.Title),
		zap.Int("bpm", md.BPM),
		zap.String("key", md.Key),
		zap.Strings("genres", md.Genres),
	)
	return md, nil
}

// Probe checks that the spool directory accepts new files.
func (rd *Reader) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.CreateTemp(rd.dir, "cuemusic-probe-*")
	if err != nil {
		return fmt.Errorf("spool dir: %w", err)
	}
	_ = f.Close()
	return os.Remove(f.Name())
}

func (rd *Reader) spool(r io.Reader, ext string) (string, error) {
	f, err := os.CreateTemp(rd.dir, "cuemusic-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	n, copyErr := io.Copy(f, io.LimitReader(r, rd.maxBytes+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("spool audio: %w", copyErr)
	case closeErr != nil:
		err = fmt.Errorf("close temp file: %w", closeErr)
	case n > rd.maxBytes:
		err = fmt.Errorf("%w (max %d bytes)", ErrTooLarge, rd.maxBytes)
	case n == 0:
		err = errors.New("empty audio file")
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// FromTags maps a TagLib property map onto sound metadata.
// Unparseable BPM values are dropped; fractional BPM is rounded.
func FromTags(tags map[string][]string) sound.Metadata {
	md := sound.Metadata{
		Title: first(tags, taglib.Title),
		Key:   first(tags, tagInitialKey),
	}

	if raw := first(tags, tagBPM); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 {
			md.BPM = int(math.Round(f))
		}
	}

	for _, g := range tags[taglib.Genre] {
		// ID3v2.3 frames often pack several genres into one value.
		for _, part := range strings.Split(g, ";") {
			if part = strings.TrimSpace(part); part != "" {
				md.Genres = append(md.Genres, part)
			}
		}
	}
	return md
}

func first(tags map[string][]string, key string) string {
	if vals, ok := tags[key]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}
