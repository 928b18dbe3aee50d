package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	bbolt "go.etcd.io/bbolt"
)

func openTestRepo(t *testing.T) *SessionRepo {
	t.Helper()

	db, err := bbolt.Open(filepath.Join(t.TempDir(), "sessions.db"), 0600, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewSessionRepo(db)
	assert.NoError(t, err)
	return repo
}

func TestSessionRepo_GetAbsentKey(t *testing.T) {
	repo := openTestRepo(t)

	data, err := repo.Get("123:456")
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestSessionRepo_SetGetDelete(t *testing.T) {
	repo := openTestRepo(t)
	blob := []byte(`{"fsm":{"state":"searching"}}`)

	assert.NoError(t, repo.Set("123:456", blob))

	data, err := repo.Get("123:456")
	assert.NoError(t, err)
	assert.Equal(t, blob, data)

	// Overwrite
	assert.NoError(t, repo.Set("123:456", []byte(`{}`)))
	data, err = repo.Get("123:456")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{}`), data)

	assert.NoError(t, repo.Delete("123:456"))
	data, err = repo.Get("123:456")
	assert.NoError(t, err)
	assert.Nil(t, data)
}
