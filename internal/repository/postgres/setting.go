package postgres

import (
	"database/sql"

	"cashbackhelp/internal/domain"
)

// SettingRepo implements repository.ServiceSettingRepository
type SettingRepo struct {
	db *sql.DB
}

// NewSettingRepo creates a new service settings repository
func NewSettingRepo(db *sql.DB) *SettingRepo {
	return &SettingRepo{db: db}
}

const settingColumns = `id, service_type, is_enabled, scope, user_id, note, updated_at`

// FindGlobal returns the global row for the service, or (nil, nil) if absent
func (r *SettingRepo) FindGlobal(service domain.ServiceType) (*domain.ServiceSetting, error) {
	query := `
		SELECT ` + settingColumns + `
		FROM service_settings WHERE service_type = $1 AND scope = 'global'
	`
	return r.queryOne(query, string(service))
}

// FindUser returns the user-scope override, or (nil, nil) if absent
func (r *SettingRepo) FindUser(userID int64, service domain.ServiceType) (*domain.ServiceSetting, error) {
	query := `
		SELECT ` + settingColumns + `
		FROM service_settings WHERE service_type = $1 AND scope = 'user' AND user_id = $2
	`
	return r.queryOne(query, string(service), userID)
}

// UpsertGlobal creates or updates the global row for the service
func (r *SettingRepo) UpsertGlobal(service domain.ServiceType, enabled bool, note string) error {
	query := `
		INSERT INTO service_settings (service_type, is_enabled, scope, note)
		VALUES ($1, $2, 'global', $3)
		ON CONFLICT (service_type) WHERE scope = 'global'
		DO UPDATE SET is_enabled = EXCLUDED.is_enabled, note = EXCLUDED.note, updated_at = NOW()
	`
	_, err := r.db.Exec(query, string(service), enabled, note)
	return err
}

// UpsertUser creates or updates a per-user override row
func (r *SettingRepo) UpsertUser(userID int64, service domain.ServiceType, enabled bool, note string) error {
	query := `
		INSERT INTO service_settings (service_type, is_enabled, scope, user_id, note)
		VALUES ($1, $2, 'user', $3, $4)
		ON CONFLICT (service_type, user_id) WHERE scope = 'user'
		DO UPDATE SET is_enabled = EXCLUDED.is_enabled, note = EXCLUDED.note, updated_at = NOW()
	`
	_, err := r.db.Exec(query, string(service), enabled, userID, note)
	return err
}

// RemoveUser deletes a per-user override, reverting the user to the global row
func (r *SettingRepo) RemoveUser(userID int64, service domain.ServiceType) error {
	query := `
		DELETE FROM service_settings
		WHERE service_type = $1 AND scope = 'user' AND user_id = $2
	`
	_, err := r.db.Exec(query, string(service), userID)
	return err
}

// ListAll returns every setting row, global rows first
func (r *SettingRepo) ListAll() ([]domain.ServiceSetting, error) {
	query := `
		SELECT ` + settingColumns + `
		FROM service_settings ORDER BY scope, service_type
	`
	return r.queryMany(query)
}

// ListUser returns the user's override rows
func (r *SettingRepo) ListUser(userID int64) ([]domain.ServiceSetting, error) {
	query := `
		SELECT ` + settingColumns + `
		FROM service_settings WHERE scope = 'user' AND user_id = $1 ORDER BY service_type
	`
	return r.queryMany(query, userID)
}

func (r *SettingRepo) queryOne(query string, args ...interface{}) (*domain.ServiceSetting, error) {
	s, err := scanSetting(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SettingRepo) queryMany(query string, args ...interface{}) ([]domain.ServiceSetting, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []domain.ServiceSetting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, *s)
	}

	return settings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSetting(row rowScanner) (*domain.ServiceSetting, error) {
	var s domain.ServiceSetting
	var userID sql.NullInt64
	var note sql.NullString

	err := row.Scan(&s.ID, &s.ServiceType, &s.IsEnabled, &s.Scope, &userID, &note, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		v := userID.Int64
		s.UserID = &v
	}
	s.Note = note.String

	return &s, nil
}
