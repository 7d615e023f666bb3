package study

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/studyclub/core"
	"github.com/trezcool/studyclub/core/week"
)

// Goal registration gates (core.StudyConfig.GoalGate).
const (
	GateOpen   = "open"
	GateSunday = "sunday"
	GateAdmin  = "admin"
)

var (
	// NowFunc returns "today"; mockable in tests.
	NowFunc = time.Now

	// errors
	ErrNotFound      = errors.New("participant not found")
	ErrGateClosed    = errors.New("goal registration is only open on Sunday")
	ErrAdminOnly     = errors.New("goal registration is restricted to admins")
	errNotRegistered = "no registered participant with this name for this week"
)

type (
	Repository interface {
		GetParticipant(ctx context.Context, weekKey, name string) (Participant, error)
		GetParticipantByID(ctx context.Context, weekKey, id string) (Participant, error)
		// QueryParticipants returns all rows of a week, default-ordered by name.
		QueryParticipants(ctx context.Context, weekKey string, ordering ...core.DBOrdering) ([]Participant, error)
		// UpsertParticipant inserts or replaces a row keyed by (name, weekKey).
		UpsertParticipant(ctx context.Context, p Participant) (Participant, error)
		// UpdateParticipant updates an existing row by (id, weekKey).
		UpdateParticipant(ctx context.Context, p Participant) (Participant, error)
		DeleteParticipant(ctx context.Context, weekKey, id string) error
		DeleteWeekParticipants(ctx context.Context, weekKey string) error
	}

	Service struct {
		repo   Repository
		policy week.Policy
		gate   string
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{
		repo:   repo,
		policy: week.Policy{StartDay: conf.WeekStartWeekday()},
		gate:   strings.ToLower(conf.Study.GoalGate),
	}
}

func (svc *Service) Policy() week.Policy { return svc.policy }

// CurrentWeekKey is the partition key of "today".
func (svc *Service) CurrentWeekKey() string {
	return svc.policy.Key(NowFunc())
}

// CurrentWeek describes the running week for the main view header.
type CurrentWeek struct {
	WeekKey  string    `json:"week_key"`
	Label    string    `json:"label"`
	DayIndex int       `json:"day_index"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func (svc *Service) CurrentWeek() CurrentWeek {
	now := NowFunc()
	start, end := svc.policy.Range(now)
	return CurrentWeek{
		WeekKey:  svc.policy.Key(now),
		Label:    week.Label(now),
		DayIndex: week.DayIndex(now),
		Start:    start,
		End:      end,
	}
}

// gateOpen applies the goal-registration gate policy.
func (svc *Service) gateOpen(elevated bool) error {
	switch svc.gate {
	case GateSunday:
		if elevated || NowFunc().Weekday() == time.Sunday {
			return nil
		}
		return ErrGateClosed
	case GateAdmin:
		if elevated {
			return nil
		}
		return ErrAdminOnly
	default: // GateOpen
		return nil
	}
}

// RegisterGoal upserts a participant for the current week: an existing row
// keeps its accumulated DailyHours and Comments, only GoalHours is set.
func (svc *Service) RegisterGoal(ctx context.Context, ng NewGoal, elevated bool) (Row, error) {
	if err := svc.gateOpen(elevated); err != nil {
		return Row{}, err
	}

	weekKey := svc.CurrentWeekKey()
	now := NowFunc().UTC()

	p, err := svc.repo.GetParticipant(ctx, weekKey, ng.Name)
	switch errors.Cause(err) {
	case nil:
	case ErrNotFound:
		p = Participant{
			ID:        uuid.New().String(),
			Name:      ng.Name,
			WeekKey:   weekKey,
			CreatedAt: now,
		}
	default:
		return Row{}, errors.Wrap(err, "finding participant by name")
	}

	p.EnsureDaily()
	goal := ng.GoalHours
	p.GoalHours = &goal
	p.StudiedHours = p.TotalHours()
	p.UpdatedAt = now

	p, err = svc.repo.UpsertParticipant(ctx, p)
	if err != nil {
		return Row{}, errors.Wrap(err, "upserting participant")
	}
	return NewRow(p), nil
}

// LogHours adds hours to today's slot of a registered participant.
// Accumulation is additive, never an overwrite.
func (svc *Service) LogHours(ctx context.Context, hl HourLog) (LogResult, error) {
	weekKey := svc.CurrentWeekKey()

	p, err := svc.repo.GetParticipant(ctx, weekKey, hl.Name)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return LogResult{}, core.NewValidationError(err, core.FieldError{Field: "name", Error: errNotRegistered})
		}
		return LogResult{}, errors.Wrap(err, "finding participant by name")
	}

	p.EnsureDaily()
	dayIdx := week.DayIndex(NowFunc())
	prev := p.DailyHours[dayIdx]
	p.DailyHours[dayIdx] = prev + hl.Hours
	p.StudiedHours = p.TotalHours()
	if hl.Comment != "" {
		p.Comments = append(p.Comments, hl.Comment)
	}
	p.UpdatedAt = NowFunc().UTC()

	p, err = svc.repo.UpsertParticipant(ctx, p)
	if err != nil {
		return LogResult{}, errors.Wrap(err, "upserting participant")
	}
	return LogResult{
		Row:            NewRow(p),
		DayIndex:       dayIdx,
		PrevSlotHours:  prev,
		SlotAlreadySet: prev > 0,
	}, nil
}

// WeekBoard loads a week's rows with derived totals and the achiever split.
func (svc *Service) WeekBoard(ctx context.Context, weekKey string, ordering ...core.DBOrdering) (Board, error) {
	ps, err := svc.repo.QueryParticipants(ctx, weekKey, ordering...)
	if err != nil {
		return Board{}, errors.Wrap(err, "querying participants")
	}

	rows := make([]Row, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, NewRow(p))
	}
	achievers, nonAchievers := Partition(rows)

	label := ""
	if start, err := svc.policy.KeyStart(weekKey); err == nil {
		label = week.Label(start)
	}
	return Board{
		WeekKey:      weekKey,
		Label:        label,
		Rows:         rows,
		Achievers:    achievers,
		NonAchievers: nonAchievers,
	}, nil
}

// UpdateRowByID applies a stats-grid row save. The derived total is always
// recomputed server-side from the submitted day cells.
func (svc *Service) UpdateRowByID(ctx context.Context, weekKey, id string, ur UpdateRow) (Row, error) {
	p, err := svc.repo.GetParticipantByID(ctx, weekKey, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Row{}, err
		}
		return Row{}, errors.Wrap(err, "finding participant by ID")
	}

	p.DailyHours = append([]int(nil), ur.DailyHours...)
	if ur.GoalHours != nil {
		goal := *ur.GoalHours
		p.GoalHours = &goal
	}
	p.StudiedHours = p.TotalHours()
	p.UpdatedAt = NowFunc().UTC()

	p, err = svc.repo.UpdateParticipant(ctx, p)
	if err != nil {
		return Row{}, errors.Wrap(err, "updating participant")
	}
	return NewRow(p), nil
}

// DeleteRow removes exactly one row from a week.
func (svc *Service) DeleteRow(ctx context.Context, weekKey, id string) error {
	return svc.repo.DeleteParticipant(ctx, weekKey, id)
}

// ResetWeek wipes a week's participant set (the admin "초기화" action; gifts
// are wiped by the gift service).
func (svc *Service) ResetWeek(ctx context.Context, weekKey string) error {
	return svc.repo.DeleteWeekParticipants(ctx, weekKey)
}
