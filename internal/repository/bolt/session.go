package bolt

import (
	bbolt "go.etcd.io/bbolt"
)

var sessionBucket = []byte("sessions")

// SessionRepo implements repository.SessionRepository on a bbolt file.
// Useful for single-node deployments without PostgreSQL.
type SessionRepo struct {
	db *bbolt.DB
}

// NewSessionRepo opens the sessions bucket, creating it if needed
func NewSessionRepo(db *bbolt.DB) (*SessionRepo, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &SessionRepo{db: db}, nil
}

// Get returns the stored blob, or (nil, nil) for an absent key
func (r *SessionRepo) Get(key string) ([]byte, error) {
	var data []byte

	err := r.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(sessionBucket).Get([]byte(key))
		if raw != nil {
			data = make([]byte, len(raw))
			copy(data, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Set stores the blob, overwriting any previous value
func (r *SessionRepo) Set(key string, data []byte) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Put([]byte(key), data)
	})
}

// Delete removes the session record
func (r *SessionRepo) Delete(key string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete([]byte(key))
	})
}
