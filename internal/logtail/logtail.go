package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is the severity inferred for a host log line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Entry is one parsed line of the host log.
type Entry struct {
	Time    time.Time // zero when the line carries no timestamp
	Message string
	Level   Level
}

// stdlib log.LstdFlags prefix
const stampLayout = "2006/01/02 15:04:05"

// Parse splits a line written by the standard logger into its timestamp and
// message, and infers a level from the message wording.
func Parse(line string) Entry {
	e := Entry{Message: line}
	if len(line) > len(stampLayout) && line[len(stampLayout)] == ' ' {
		if ts, err := time.ParseInLocation(stampLayout, line[:len(stampLayout)], time.Local); err == nil {
			e.Time = ts
			e.Message = line[len(stampLayout)+1:]
		}
	}
	e.Level = levelOf(e.Message)
	return e
}

func levelOf(msg string) Level {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"):
		return LevelError
	case strings.Contains(lower, "ignored"), strings.Contains(lower, "expired"), strings.Contains(lower, "unreachable"):
		return LevelWarn
	default:
		return LevelInfo
	}
}
