package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// LogWriter is the writer used for application, request and database logs.
var LogWriter io.Writer = os.Stdout

// InitLogging points the standard logger at stdout and, when LOG_FILE is
// set, the log file as well. The returned file must be closed by the caller.
func InitLogging() *os.File {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if LogFile == "" {
		LogWriter = os.Stdout
		log.SetOutput(LogWriter)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(LogFile), os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}
	f, err := os.OpenFile(LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		LogWriter = os.Stdout
		log.SetOutput(LogWriter)
		return nil
	}

	LogWriter = io.MultiWriter(os.Stdout, f)
	log.SetOutput(LogWriter)
	return f
}
