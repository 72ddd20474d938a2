package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/maze-chain/parameter"
)

var (
	logDir      = parameter.LogDir
	logFileName = parameter.LogFileName
	maxLogSize  = int64(parameter.MaxLogSize)
)

// setupLogging routes the standard logger to a rotating file when debug is set and discards it otherwise
// The terminal UI owns stdout/stderr, so logs never go there
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		ext := filepath.Ext(logFileName)
		base := logFileName[:len(logFileName)-len(ext)]
		rotated := filepath.Join(logDir, fmt.Sprintf("%s-%s%s", base, time.Now().Format("20060102-150405"), ext))
		_ = os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("maze-chain: logging started")
	return f
}
