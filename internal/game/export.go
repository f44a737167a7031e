package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RoundSummary returns a one-line human-readable result of the last
// finished round, for the transport to broadcast as a notification.
func (r *Room) RoundSummary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Players {
		if p.IsLoser {
			return fmt.Sprintf("%s lost round %d and carries %d hidden card(s) into the next round", p.Username, r.RoundsPlayed, p.LoserPenalty)
		}
	}
	return fmt.Sprintf("round %d ended with no loser", r.RoundsPlayed)
}

// ExportRound appends a summary of the finished round to a results
// file. Operator bookkeeping, never part of game state.
func (r *Room) ExportRound(filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if !fileExists || r.RoundsPlayed == 1 {
		if fileExists {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("Navalka results - room %s\n", r.ID))
		sb.WriteString(fmt.Sprintf("Started: %s\n", time.Now().Format("2006-01-02 15:04:05")))
		sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	}

	sb.WriteString(fmt.Sprintf("Round %d\n", r.RoundsPlayed))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, p := range r.Players {
		role := ""
		switch {
		case p.IsLoser:
			role = " (loser)"
		case p.IsOut:
			role = " (out)"
		}
		sb.WriteString(fmt.Sprintf("- %s%s: %d bad card(s), carryover %d\n",
			p.Username, role, p.BadCardCounter, p.LoserPenalty))
	}
	trump := "none"
	if r.TrumpSuit != "" {
		trump = string(r.TrumpSuit)
	}
	sb.WriteString(fmt.Sprintf("Trump: %s, discarded: %d card(s)\n\n", trump, r.DiscardedCount))

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
