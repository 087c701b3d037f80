package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeLayout is fixed-width so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const interactionColumns = `id, created_at, kind, user_message, prompt, model, response, reply_type, status`

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// SaveInteraction appends i to the log. Empty Kind, ReplyType and Status
// are stored as "chat", "message" and "completed".
func (s *Store) SaveInteraction(i Interaction) error {
	_, err := s.db.Exec(`INSERT INTO interactions (`+interactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID,
		i.CreatedAt.UTC().Format(timeLayout),
		orDefault(i.Kind, "chat"),
		i.UserMessage,
		i.Prompt,
		i.Model,
		i.Response,
		orDefault(i.ReplyType, "message"),
		orDefault(i.Status, "completed"),
	)
	if err != nil {
		return fmt.Errorf("saving interaction %s: %w", i.ID, err)
	}
	return nil
}

func scanInteraction(r rowScanner) (Interaction, error) {
	var (
		i  Interaction
		ts string
	)
	err := r.Scan(&i.ID, &ts, &i.Kind, &i.UserMessage, &i.Prompt, &i.Model, &i.Response, &i.ReplyType, &i.Status)
	if err != nil {
		return Interaction{}, err
	}
	if i.CreatedAt, err = time.Parse(timeLayout, ts); err != nil {
		return Interaction{}, fmt.Errorf("interaction %s: bad created_at %q: %w", i.ID, ts, err)
	}
	return i, nil
}

func (s *Store) GetInteraction(id string) (Interaction, error) {
	i, err := scanInteraction(s.db.QueryRow(`SELECT `+interactionColumns+` FROM interactions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Interaction{}, ErrNotFound
	}
	return i, err
}

// GetRecentInteractions returns up to limit interactions, newest first.
func (s *Store) GetRecentInteractions(limit int) ([]Interaction, error) {
	rows, err := s.db.Query(`SELECT `+interactionColumns+` FROM interactions ORDER BY created_at DESC LIMIT ?`, limit)
	return collect(rows, err, scanInteraction)
}

// DeleteInteractions empties the log and reports how many rows went.
func (s *Store) DeleteInteractions() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM interactions`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
