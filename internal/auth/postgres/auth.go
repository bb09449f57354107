package postgres

import (
	"database/sql"
	"time"

	"github.com/hrplatform/employee-directory/internal/auth"
	identityDatamodel "github.com/hrplatform/employee-directory/internal/core/datamodel/identity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetEmployeeRef resolves the employee row joined to a directory username.
func (r *Repository) GetEmployeeRef(username string) (*auth.EmployeeRef, error) {
	var ref auth.EmployeeRef
	query := `SELECT employee_id, full_en_name FROM employees WHERE ad_username = ?`

	row := r.db.Raw(query, username).Row()
	if err := row.Scan(&ref.EmployeeID, &ref.FullName); err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &ref, nil
}

// EnsureIdentity creates the session identity on first login. The insert is
// a no-op when the row already exists, so repeated logins never create a
// second row and never overwrite the admin flag.
func (r *Repository) EnsureIdentity(username string) (*auth.Identity, error) {
	row := &identityDatamodel.SessionIdentity{
		Username:  username,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	return r.GetIdentity(username)
}

func (r *Repository) GetIdentity(username string) (*auth.Identity, error) {
	var row identityDatamodel.SessionIdentity
	err := r.db.Where("username = ?", username).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, err
	}

	return &auth.Identity{
		Username: row.Username,
		IsAdmin:  row.IsAdmin,
	}, nil
}

// RevokeToken inserts the refresh token ID into the revocation list. The
// unique constraint on token_id makes concurrent revocations of the same
// credential collapse to a single row, so revoking is atomic and idempotent.
func (r *Repository) RevokeToken(tokenID, username string, expiresAt time.Time) error {
	row := &identityDatamodel.RevokedToken{
		TokenID:   tokenID,
		Username:  username,
		ExpiresAt: expiresAt,
		RevokedAt: time.Now(),
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_id"}},
		DoNothing: true,
	}).Create(row).Error
}

func (r *Repository) IsTokenRevoked(tokenID string) (bool, error) {
	var count int64
	err := r.db.Model(&identityDatamodel.RevokedToken{}).
		Where("token_id = ?", tokenID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
