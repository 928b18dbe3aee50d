package postgres

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSessionRepo_Get(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		mockRows      *sqlmock.Rows
		mockError     error
		expectedData  []byte
		expectedError bool
	}{
		{
			name:         "existing session",
			key:          "123:456",
			mockRows:     sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"fsm":{"state":"idle"}}`)),
			expectedData: []byte(`{"fsm":{"state":"idle"}}`),
		},
		{
			name:         "absent session",
			key:          "123:456",
			mockRows:     sqlmock.NewRows([]string{"data"}),
			expectedData: nil,
		},
		{
			name:          "database error",
			key:           "123:456",
			mockError:     fmt.Errorf("connection refused"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewSessionRepo(db)

			query := "SELECT data FROM sessions WHERE key = \\$1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.key).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.key).WillReturnRows(tt.mockRows)
			}

			data, err := repo.Get(tt.key)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedData, data)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepo_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)
	blob := []byte(`{"fsm":{"state":"searching"}}`)

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("123:456", blob).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Set("123:456", blob))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)

	mock.ExpectExec("DELETE FROM sessions WHERE key = \\$1").
		WithArgs("123:456").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete("123:456"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
