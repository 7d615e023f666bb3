package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studyclub/core/admin"
)

type adminRow struct {
	ID           string       `db:"id"`
	Nickname     string       `db:"nickname"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    sql.NullTime `db:"created_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

type AdminRepository struct {
	db *sqlx.DB
}

var _ admin.Repository = (*AdminRepository)(nil) // interface compliance check

func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (repo AdminRepository) unrow(row adminRow) admin.Admin {
	return admin.Admin{
		ID:           row.ID,
		Nickname:     row.Nickname,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.Time,
		LastLogin:    row.LastLogin.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to admin.ErrNotFound
func (repo AdminRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return admin.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo AdminRepository) GetAdminByNickname(ctx context.Context, nickname string) (admin.Admin, error) {
	var row adminRow
	q := "SELECT id, nickname, password_hash, created_at, last_login FROM admins WHERE nickname = $1"
	if err := repo.db.GetContext(ctx, &row, q, nickname); err != nil {
		return admin.Admin{}, repo.trapNoRowsErr(err, "getting admin")
	}
	return repo.unrow(row), nil
}

func (repo AdminRepository) GetAdminByID(ctx context.Context, id string) (admin.Admin, error) {
	var row adminRow
	q := "SELECT id, nickname, password_hash, created_at, last_login FROM admins WHERE id = $1"
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return admin.Admin{}, repo.trapNoRowsErr(err, "getting admin")
	}
	return repo.unrow(row), nil
}

func (repo AdminRepository) UpdateOrCreateAdmin(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	if adm.ID == "" {
		adm.ID = uuid.New().String()
	}
	q := `
INSERT INTO admins (id, nickname, password_hash, created_at, last_login)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (nickname) DO UPDATE SET
    password_hash = EXCLUDED.password_hash,
    last_login    = EXCLUDED.last_login`
	lastLogin := sql.NullTime{Time: adm.LastLogin.UTC(), Valid: !adm.LastLogin.IsZero()}
	if _, err := repo.db.ExecContext(ctx, q, adm.ID, adm.Nickname, adm.PasswordHash, adm.CreatedAt.UTC(), lastLogin); err != nil {
		return admin.Admin{}, errors.Wrap(err, "upserting admin")
	}
	// the stored row keeps its original id on conflict
	return repo.GetAdminByNickname(ctx, adm.Nickname)
}
