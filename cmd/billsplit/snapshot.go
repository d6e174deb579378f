package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/session"
)

// Overridden in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// loadSession reads a snapshot file and restores the session from it.
func loadSession(file string) (*session.Session, error) {
	if file == "" {
		return nil, errors.New("a session file is required (-s)")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", file, err)
	}
	return session.FromSnapshot(snap), nil
}

// saveSession writes the session snapshot to file, or to stdout when file
// is empty.
func saveSession(file string, s *session.Session) error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if file == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(file, data, 0o644)
}
