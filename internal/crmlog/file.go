package crmlog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/alexanderramin/autofin/internal/domain"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampLayout = "2006-01-02 15:04:05"

// FileOptions controls rotation of the chat history file.
type FileOptions struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileOptions keeps five 10 MB files for 30 days.
func DefaultFileOptions() FileOptions {
	return FileOptions{MaxSizeMB: 10, MaxBackups: 5, MaxAgeDays: 30}
}

// FileSink appends interactions to a plain-text chat history.
type FileSink struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewFileSink opens a rotating history file at path, creating parent
// directories as needed.
func NewFileSink(path string, opts FileOptions) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return &FileSink{w: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}}, nil
}

// NewWriterSink writes the same format to an arbitrary writer.
func NewWriterSink(w io.Writer) *FileSink {
	return &FileSink{w: nopCloser{w}}
}

func (s *FileSink) Record(_ context.Context, in domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, Format(in)); err != nil {
		return fmt.Errorf("writing chat history: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}

// Format renders one interaction as a history entry.
func Format(in domain.Interaction) string {
	return fmt.Sprintf("[%s]\nUser: %s\nAgent: %s\n\n",
		in.CreatedAt.Local().Format(timestampLayout), in.UserText, in.Response)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
