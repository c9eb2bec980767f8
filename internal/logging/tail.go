package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
)

// Tail returns the last n entries of the log at path whose level is at least
// minLevel. Lines that are not JSON entries are kept as they are. A missing
// file yields no lines and n <= 0 returns every matching line.
func Tail(path string, n int, minLevel zapcore.Level) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var ring []string
	if n > 0 {
		ring = make([]string, 0, n)
	}
	next := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || !atLeast(line, minLevel) {
			continue
		}
		switch {
		case n <= 0 || len(ring) < n:
			ring = append(ring, line)
		default:
			ring[next] = line
			next = (next + 1) % n
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, 0, len(ring))
	lines = append(lines, ring[next:]...)
	return append(lines, ring[:next]...), nil
}

func atLeast(line string, minLevel zapcore.Level) bool {
	var entry struct {
		Level string `json:"level"`
	}
	if json.Unmarshal([]byte(line), &entry) != nil || entry.Level == "" {
		return true
	}
	var lvl zapcore.Level
	if lvl.UnmarshalText([]byte(entry.Level)) != nil {
		return true
	}
	return lvl >= minLevel
}
