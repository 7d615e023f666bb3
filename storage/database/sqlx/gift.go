package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studyclub/core"
	"github.com/trezcool/studyclub/core/gift"
)

type giftRow struct {
	ID        string       `db:"id"`
	WeekKey   string       `db:"week_key"`
	FromName  string       `db:"from_name"`
	ToName    string       `db:"to_name"`
	CreatedAt sql.NullTime `db:"created_at"`
}

type GiftRepository struct {
	db *sqlx.DB
}

var _ gift.Repository = (*GiftRepository)(nil) // interface compliance check

func NewGiftRepository(db *sqlx.DB) *GiftRepository {
	return &GiftRepository{db: db}
}

func (repo GiftRepository) unrow(row giftRow) gift.Record {
	return gift.Record{
		ID:        row.ID,
		WeekKey:   row.WeekKey,
		From:      row.FromName,
		To:        row.ToName,
		CreatedAt: row.CreatedAt.Time,
	}
}

func (repo GiftRepository) CreateRecord(ctx context.Context, rec gift.Record) (gift.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	q := "INSERT INTO gifts (id, week_key, from_name, to_name, created_at) VALUES ($1, $2, $3, $4, $5)"
	if _, err := repo.db.ExecContext(ctx, q, rec.ID, rec.WeekKey, rec.From, rec.To, rec.CreatedAt.UTC()); err != nil {
		return gift.Record{}, errors.Wrap(err, "inserting gift record")
	}
	return rec, nil
}

func (repo GiftRepository) QueryRecords(ctx context.Context, weekKey string, ordering ...core.DBOrdering) ([]gift.Record, error) {
	orderBy := "created_at DESC"
	if len(ordering) > 0 {
		orderBy = ordering[0].String()
	}
	var rows []giftRow
	q := "SELECT id, week_key, from_name, to_name, created_at FROM gifts WHERE week_key = $1 ORDER BY " + orderBy
	if err := repo.db.SelectContext(ctx, &rows, q, weekKey); err != nil {
		return nil, errors.Wrap(err, "querying gift records")
	}
	recs := make([]gift.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, repo.unrow(row))
	}
	return recs, nil
}

func (repo GiftRepository) DeleteWeekRecords(ctx context.Context, weekKey string) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM gifts WHERE week_key = $1", weekKey); err != nil {
		return errors.Wrap(err, "deleting week gift records")
	}
	return nil
}
