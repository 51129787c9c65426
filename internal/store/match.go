package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Match represents one finished match.
type Match struct {
	ID            string
	PlayerScore   int
	ComputerScore int
	Winner        string
	Difficulty    string
	CreatedAt     time.Time
}

// MatchRepository provides operations on match history.
type MatchRepository struct {
	db *sql.DB
}

// Matches returns the match repository for this store.
func (s *Store) Matches() *MatchRepository {
	return &MatchRepository{db: s.db}
}

// Create inserts a finished match. A missing ID is generated.
func (r *MatchRepository) Create(m *Match) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO matches (id, player_score, computer_score, winner, difficulty, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.PlayerScore, m.ComputerScore, m.Winner, m.Difficulty, m.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a match by its ID.
func (r *MatchRepository) GetByID(id string) (*Match, error) {
	m := &Match{}

	err := r.db.QueryRow(
		`SELECT id, player_score, computer_score, winner, difficulty, created_at
		 FROM matches WHERE id = ?`,
		id,
	).Scan(&m.ID, &m.PlayerScore, &m.ComputerScore, &m.Winner, &m.Difficulty, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return m, nil
}

// List retrieves the most recent matches, newest first. A limit of zero or
// less returns everything.
func (r *MatchRepository) List(limit int) ([]*Match, error) {
	query := `SELECT id, player_score, computer_score, winner, difficulty, created_at
		 FROM matches ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m := &Match{}
		err := rows.Scan(&m.ID, &m.PlayerScore, &m.ComputerScore, &m.Winner, &m.Difficulty, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

// Delete removes a match from the history by its ID.
func (r *MatchRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
