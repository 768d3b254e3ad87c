package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// FileLogger implements the domain.Logger interface.
type FileLogger struct {
	logger *log.Logger
}

// NewFileLogger creates a logger that appends to a file.
func NewFileLogger(logFilePath string) (*FileLogger, error) {
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	// The file stays open for the lifetime of the command.
	return NewLogger(file), nil
}

// NewLogger creates a logger that writes to w.
func NewLogger(w io.Writer) *FileLogger {
	return &FileLogger{logger: log.New(w, "", log.LstdFlags|log.LUTC)}
}

// Discard returns a logger that drops every message.
func Discard() *FileLogger {
	return NewLogger(io.Discard)
}

// Info logs an informational message.
func (l *FileLogger) Info(msg string, args ...interface{}) {
	l.logger.Printf("INFO: "+msg, args...)
}

// Warning logs a problem that did not stop the operation.
func (l *FileLogger) Warning(msg string, args ...interface{}) {
	l.logger.Printf("WARNING: "+msg, args...)
}

// Error logs an error message.
func (l *FileLogger) Error(msg string, args ...interface{}) {
	l.logger.Printf("ERROR: "+msg, args...)
}

// Log logs a standard operation message.
func (l *FileLogger) Log(msg string) {
	l.logger.Println(msg)
}
