package postgres

import (
	"database/sql"
)

// SessionRepo implements repository.SessionRepository on the sessions table.
// Blobs are opaque here; the session service owns serialization.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Get returns the stored blob, or (nil, nil) for an absent key
func (r *SessionRepo) Get(key string) ([]byte, error) {
	query := `SELECT data FROM sessions WHERE key = $1`

	var data []byte
	err := r.db.QueryRow(query, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Set stores the blob, overwriting any previous value
func (r *SessionRepo) Set(key string, data []byte) error {
	query := `
		INSERT INTO sessions (key, data)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	_, err := r.db.Exec(query, key, data)
	return err
}

// Delete removes the session record
func (r *SessionRepo) Delete(key string) error {
	query := `DELETE FROM sessions WHERE key = $1`
	_, err := r.db.Exec(query, key)
	return err
}
