package postgres

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCashbackRepo_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCashbackRepo(db)

	mock.ExpectExec("INSERT INTO cashback_settings").
		WithArgs(int64(123), 1, 3, 10).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.Upsert(123, 1, 3, 10))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCashbackRepo_CountBanks(t *testing.T) {
	tests := []struct {
		name          string
		mockCount     int
		mockError     error
		expectedError bool
	}{
		{name: "user with banks", mockCount: 3},
		{name: "user with none", mockCount: 0},
		{name: "database error", mockError: fmt.Errorf("db error"), expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewCashbackRepo(db)

			query := "SELECT COUNT\\(DISTINCT bank_id\\) FROM cashback_settings WHERE user_id = \\$1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(int64(123)).WillReturnError(tt.mockError)
			} else {
				rows := sqlmock.NewRows([]string{"count"}).AddRow(tt.mockCount)
				mock.ExpectQuery(query).WithArgs(int64(123)).WillReturnRows(rows)
			}

			count, err := repo.CountBanks(123)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.mockCount, count)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCashbackRepo_HasBank(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCashbackRepo(db)

	rows := sqlmock.NewRows([]string{"exists"}).AddRow(true)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(123), 1).
		WillReturnRows(rows)

	has, err := repo.HasBank(123, 1)
	assert.NoError(t, err)
	assert.True(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCashbackRepo_Remove(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCashbackRepo(db)

	mock.ExpectExec("DELETE FROM cashback_settings").
		WithArgs(int64(123), 1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Remove(123, 1, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
