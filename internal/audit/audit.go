// Package audit records the launch history of the bot as JSON Lines.
//
// The launcher appends one event per completed step and one error event
// when a step fails, so a single run leaves a short trail such as
//
//	sync, venv, activate, install, launch
//
// in <workdir>/.botlaunch/history.jsonl. The file is append-only and is
// never rotated or pruned by the launcher: it is kept across restarts until
// an operator runs "botlaunch history --clear". Writes are best effort and
// a failed write never stops a launch. Readers skip malformed lines, so a
// line torn by a crash mid-write costs one event, not the whole history.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EventType classifies a launcher event.
type EventType string

const (
	EventSync     EventType = "sync"
	EventVenv     EventType = "venv"
	EventActivate EventType = "activate"
	EventInstall  EventType = "install"
	EventLaunch   EventType = "launch"
	EventError    EventType = "error"
)

// Event represents a single history entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Details   string    `json:"details,omitempty"`
}

// Logger appends and reads events in a single JSONL file. It holds no open
// file handle between calls, so separate launcher runs can share one path.
type Logger struct {
	path string
}

// NewLogger creates a history logger writing to path.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// Path returns the history file location.
func (l *Logger) Path() string {
	return l.path
}

// Log appends an event to the history.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Details:   details,
	})
}

// Events reads all events in chronological order. A missing file yields no events.
func (l *Logger) Events() ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading history: %w", err)
	}

	return events, nil
}

// Tail returns the newest n events in chronological order, or the whole
// history when n <= 0. A missing file yields no events and no error.
func (l *Logger) Tail(n int) ([]Event, error) {
	events, err := l.Events()
	if err != nil || n <= 0 || len(events) <= n {
		return events, err
	}
	return events[len(events)-n:], nil
}

// Last returns the newest event of the given type, or nil when the history
// holds none.
func (l *Logger) Last(eventType EventType) (*Event, error) {
	events, err := l.Events()
	if err != nil {
		return nil, err
	}
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == eventType {
			return &events[i], nil
		}
	}
	return nil, nil
}

// Remove deletes the history file. Removing a missing file is not an error.
func (l *Logger) Remove() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
