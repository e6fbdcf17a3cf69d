package util

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// ConsoleOutput writes logs to a console stream
type ConsoleOutput struct {
	writer io.Writer
	format LogFormat
	mu     sync.Mutex
}

// NewConsoleOutput creates a new console output
func NewConsoleOutput(writer io.Writer, format LogFormat) Output {
	return &ConsoleOutput{
		writer: writer,
		format: format,
	}
}

// Write writes a log entry to console
func (c *ConsoleOutput) Write(entry LogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, err := renderEntry(entry, c.format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.writer, line)
	return err
}

// Close closes the console output
func (c *ConsoleOutput) Close() error {
	return nil
}

// DefaultLogMaxBytes caps the log file before it is rotated to <path>.1
const DefaultLogMaxBytes int64 = 5 << 20

// FileOutput appends logs to a file, keeping one rotated predecessor once
// the file grows past maxBytes
type FileOutput struct {
	path     string
	file     *os.File
	size     int64
	maxBytes int64
	format   LogFormat
	mu       sync.Mutex
}

// NewFileOutput opens path for appending. maxBytes <= 0 disables rotation.
func NewFileOutput(path string, format LogFormat, maxBytes int64) (Output, error) {
	f := &FileOutput{path: path, format: format, maxBytes: maxBytes}
	if err := f.open(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FileOutput) open() error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	f.file = file
	f.size = info.Size()
	return nil
}

func (f *FileOutput) rotate() error {
	if err := f.file.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.path, f.path+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return f.open()
}

// Write appends one rendered entry
func (f *FileOutput) Write(entry LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return os.ErrClosed
	}
	line, err := renderEntry(entry, f.format)
	if err != nil {
		return err
	}
	line += "\n"

	if f.maxBytes > 0 && f.size > 0 && f.size+int64(len(line)) > f.maxBytes {
		if err := f.rotate(); err != nil {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	n, err := io.WriteString(f.file, line)
	f.size += int64(n)
	return err
}

// Close closes the file
func (f *FileOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// renderEntry formats an entry as one line. Text fields are sorted by key.
func renderEntry(entry LogEntry, format LogFormat) (string, error) {
	if format == FormatJSON {
		data, err := sonic.ConfigStd.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	timestamp := entry.Timestamp.Format("2006/01/02 15:04:05")
	line := fmt.Sprintf("%s [%s] %s", timestamp, entry.Level, entry.Message)
	if len(entry.Fields) == 0 {
		return line, nil
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fieldStrs := make([]string, 0, len(keys))
	for _, k := range keys {
		fieldStrs = append(fieldStrs, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
	}
	return line + " " + strings.Join(fieldStrs, " "), nil
}
