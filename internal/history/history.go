// Package history keeps the last few executed commands with their
// timestamps in a flat pipe-delimited file, one entry per line.
package history

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MaxEntries bounds the in-memory log; the oldest entry is evicted
// first. The persisted file is rewritten from the bounded slice on
// every append.
const MaxEntries = 10

type Entry struct {
	Command string
	At      float64 // unix seconds
}

type Log struct {
	mu      sync.Mutex
	path    string
	entries []Entry
}

// Open loads existing history from path. Unreadable lines are skipped;
// a missing file is an empty log.
func Open(path string) (*Log, error) {
	l := &Log{path: path}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, tsRaw, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		ts, err := strconv.ParseFloat(tsRaw, 64)
		if err != nil {
			continue
		}
		l.entries = append(l.entries, Entry{Command: cmd, At: ts})
	}
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[len(l.entries)-MaxEntries:]
	}
	return l, sc.Err()
}

// Append records a command now and persists the bounded log.
func (l *Log) Append(command string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{
		Command: command,
		At:      float64(time.Now().UnixNano()) / float64(time.Second),
	})
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[1:]
	}
	return l.save()
}

func (l *Log) save() error {
	var b strings.Builder
	for _, e := range l.entries {
		fmt.Fprintf(&b, "%s|%s\n", e.Command, strconv.FormatFloat(e.At, 'f', -1, 64))
	}
	return os.WriteFile(l.path, []byte(b.String()), 0o644)
}

// Last returns the most recent entry, if any.
func (l *Log) Last() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Entries returns a copy of the bounded log, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear drops all entries and truncates the file.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	return l.save()
}
