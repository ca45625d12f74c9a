package merge

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"unicode/utf8"
)

// lineSeparator terminates every copied content line.
var lineSeparator = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// Separator lines framing each file's path marker.
const separatorLine = "// ======================================================="

// fileHeader returns the block written before each file's content.
func fileHeader(relPath string) string {
	return fmt.Sprintf("\n\n%s\n// FILE PATH: %s\n%s\n\n", separatorLine, relPath, separatorLine)
}

// preamble returns the fixed lines opening every merged file.
func preamble(totalFiles int, sourceRoot string) string {
	var b strings.Builder
	b.WriteString("CONTEXT_INFO: This file contains merged text files for analysis.\n")
	b.WriteString("Please refer to the file paths below to understand the structure.\n")
	fmt.Fprintf(&b, "Total Files: %d\n", totalFiles)
	fmt.Fprintf(&b, "Source Directory: %s\n", sourceRoot)
	return b.String()
}

// readTextLines reads a UTF-8 file and returns its lines without terminators.
func readTextLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &IOError{Op: "decode", Path: path, Err: ErrNotText}
	}
	return splitLines(string(data)), nil
}

// splitLines splits on "\n", "\r\n" or "\r". A terminator at the very end of
// text does not produce a trailing empty line.
func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i])
		if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			i++
		}
		text = text[i+1:]
	}
	return lines
}
