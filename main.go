package main

import (
	"context"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"filekit/cmd"
	"filekit/pkg/logging"
	"filekit/pkg/prompt"
	"filekit/pkg/version"
)

func main() {
	logger, err := logging.Setup(false, version.AppName, version.Get().Version)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	code := 0
	if err := cmd.Execute(context.Background(), logger); err != nil {
		if prompt.IsAborted(err) {
			logger.Info("Input cancelled by user, exiting")
		} else {
			logger.Error("filekit execution failed", zap.Error(err))
			code = 1
		}
	}

	// Check if stderr is a terminal or a regular file before attempting to sync.
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}
	os.Exit(code)
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
