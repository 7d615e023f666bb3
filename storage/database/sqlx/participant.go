package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studyclub/core"
	"github.com/trezcool/studyclub/core/study"
)

type participantRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	WeekKey      string         `db:"week_key"`
	GoalHours    null.Int       `db:"goal_hours"`
	StudiedHours int            `db:"studied_hours"`
	DailyHours   pq.Int64Array  `db:"daily_hours"`
	Comments     pq.StringArray `db:"comments"`
	CreatedAt    sql.NullTime   `db:"created_at"`
	UpdatedAt    sql.NullTime   `db:"updated_at"`
}

type ParticipantRepository struct {
	db *sqlx.DB
}

var _ study.Repository = (*ParticipantRepository)(nil) // interface compliance check

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (repo ParticipantRepository) row(p study.Participant) participantRow {
	daily := make(pq.Int64Array, len(p.DailyHours))
	for i, h := range p.DailyHours {
		daily[i] = int64(h)
	}
	row := participantRow{
		ID:           p.ID,
		Name:         p.Name,
		WeekKey:      p.WeekKey,
		GoalHours:    null.IntFromPtr(p.GoalHours),
		StudiedHours: p.StudiedHours,
		DailyHours:   daily,
		Comments:     pq.StringArray(p.Comments),
		CreatedAt:    sql.NullTime{Time: p.CreatedAt.UTC(), Valid: !p.CreatedAt.IsZero()},
		UpdatedAt:    sql.NullTime{Time: p.UpdatedAt.UTC(), Valid: !p.UpdatedAt.IsZero()},
	}
	if row.Comments == nil {
		row.Comments = pq.StringArray{}
	}
	return row
}

func (repo ParticipantRepository) unrow(row participantRow) study.Participant {
	daily := make([]int, len(row.DailyHours))
	for i, h := range row.DailyHours {
		daily[i] = int(h)
	}
	return study.Participant{
		ID:           row.ID,
		Name:         row.Name,
		WeekKey:      row.WeekKey,
		GoalHours:    row.GoalHours.Ptr(),
		StudiedHours: row.StudiedHours,
		DailyHours:   daily,
		Comments:     row.Comments,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to study.ErrNotFound
func (repo ParticipantRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return study.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const participantColumns = "id, name, week_key, goal_hours, studied_hours, daily_hours, comments, created_at, updated_at"

func (repo ParticipantRepository) GetParticipant(ctx context.Context, weekKey, name string) (study.Participant, error) {
	var row participantRow
	q := fmt.Sprintf("SELECT %s FROM participants WHERE week_key = $1 AND name = $2", participantColumns)
	if err := repo.db.GetContext(ctx, &row, q, weekKey, name); err != nil {
		return study.Participant{}, repo.trapNoRowsErr(err, "getting participant")
	}
	return repo.unrow(row), nil
}

func (repo ParticipantRepository) GetParticipantByID(ctx context.Context, weekKey, id string) (study.Participant, error) {
	var row participantRow
	q := fmt.Sprintf("SELECT %s FROM participants WHERE week_key = $1 AND id = $2", participantColumns)
	if err := repo.db.GetContext(ctx, &row, q, weekKey, id); err != nil {
		return study.Participant{}, repo.trapNoRowsErr(err, "getting participant")
	}
	return repo.unrow(row), nil
}

func (repo ParticipantRepository) QueryParticipants(ctx context.Context, weekKey string, ordering ...core.DBOrdering) ([]study.Participant, error) {
	orderBy := "name ASC"
	if len(ordering) > 0 {
		orderBy = ordering[0].String()
	}
	var rows []participantRow
	q := fmt.Sprintf("SELECT %s FROM participants WHERE week_key = $1 ORDER BY %s", participantColumns, orderBy)
	if err := repo.db.SelectContext(ctx, &rows, q, weekKey); err != nil {
		return nil, errors.Wrap(err, "querying participants")
	}
	pcpts := make([]study.Participant, 0, len(rows))
	for _, row := range rows {
		pcpts = append(pcpts, repo.unrow(row))
	}
	return pcpts, nil
}

func (repo ParticipantRepository) UpsertParticipant(ctx context.Context, p study.Participant) (study.Participant, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	row := repo.row(p)
	q := `
INSERT INTO participants (id, name, week_key, goal_hours, studied_hours, daily_hours, comments, created_at, updated_at)
VALUES (:id, :name, :week_key, :goal_hours, :studied_hours, :daily_hours, :comments, :created_at, :updated_at)
ON CONFLICT (name, week_key) DO UPDATE SET
    goal_hours    = EXCLUDED.goal_hours,
    studied_hours = EXCLUDED.studied_hours,
    daily_hours   = EXCLUDED.daily_hours,
    comments      = EXCLUDED.comments,
    updated_at    = EXCLUDED.updated_at`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return study.Participant{}, errors.Wrap(err, "upserting participant")
	}
	// the stored row keeps its original id on conflict
	return repo.GetParticipant(ctx, p.WeekKey, p.Name)
}

func (repo ParticipantRepository) UpdateParticipant(ctx context.Context, p study.Participant) (study.Participant, error) {
	row := repo.row(p)
	q := `
UPDATE participants SET
    goal_hours    = :goal_hours,
    studied_hours = :studied_hours,
    daily_hours   = :daily_hours,
    comments      = :comments,
    updated_at    = :updated_at
WHERE id = :id AND week_key = :week_key`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return study.Participant{}, errors.Wrap(err, "updating participant")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return study.Participant{}, study.ErrNotFound
	}
	return repo.GetParticipantByID(ctx, p.WeekKey, p.ID)
}

func (repo ParticipantRepository) DeleteParticipant(ctx context.Context, weekKey, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM participants WHERE week_key = $1 AND id = $2", weekKey, id)
	if err != nil {
		return errors.Wrap(err, "deleting participant")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return study.ErrNotFound
	}
	return nil
}

func (repo ParticipantRepository) DeleteWeekParticipants(ctx context.Context, weekKey string) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM participants WHERE week_key = $1", weekKey); err != nil {
		return errors.Wrap(err, "deleting week participants")
	}
	return nil
}
