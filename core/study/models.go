package study

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studyclub/core"
)

// DaysPerWeek is the fixed length of every DailyHours array.
const DaysPerWeek = 7

// GoalOptions are the allowed weekly goals: 5, 10, ... 50 hours.
var GoalOptions = goalOptions()

func goalOptions() []int {
	opts := make([]int, 0, 10)
	for h := 5; h <= 50; h += 5 {
		opts = append(opts, h)
	}
	return opts
}

// Participant is one person's record for one week.
//
// StudiedHours is stored for backward compatibility with legacy rows that
// predate DailyHours; it must always be recomputable as the sum of
// DailyHours (see TotalHours).
type Participant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	WeekKey      string    `json:"week_key"`
	GoalHours    *int      `json:"goal_hours"`
	StudiedHours int       `json:"studied_hours"`
	DailyHours   []int     `json:"daily_hours"` // Monday-first, always length 7
	Comments     []string  `json:"comments"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// EnsureDaily normalizes legacy records missing the 7-day array.
func (p *Participant) EnsureDaily() {
	if len(p.DailyHours) != DaysPerWeek {
		p.DailyHours = make([]int, DaysPerWeek)
	}
	if p.Comments == nil {
		p.Comments = []string{}
	}
}

// TotalHours sums the daily array when well-formed, falling back to the
// stored scalar for legacy rows.
func (p Participant) TotalHours() int {
	if len(p.DailyHours) != DaysPerWeek {
		return p.StudiedHours
	}
	var total int
	for _, h := range p.DailyHours {
		total += h
	}
	return total
}

// Achieved reports whether the goal is set and met. A participant without a
// goal is never an achiever.
func (p Participant) Achieved() bool {
	return p.GoalHours != nil && p.TotalHours() >= *p.GoalHours
}

// Row is a Participant with its derived fields, as served to the board and
// stats grid.
type Row struct {
	Participant
	TotalHours int  `json:"total_hours"`
	Achieved   bool `json:"achieved"`
}

func NewRow(p Participant) Row {
	p.EnsureDaily()
	return Row{Participant: p, TotalHours: p.TotalHours(), Achieved: p.Achieved()}
}

// Board is a week's worth of rows plus the achiever partition.
type Board struct {
	WeekKey      string   `json:"week_key"`
	Label        string   `json:"label"`
	Rows         []Row    `json:"rows"`
	Achievers    []string `json:"achievers"`
	NonAchievers []string `json:"non_achievers"`
}

// Partition splits rows into achiever and non-achiever names. "No goal set"
// lands in the non-achiever bucket per the Achieved definition.
func Partition(rows []Row) (achievers, nonAchievers []string) {
	achievers = make([]string, 0, len(rows))
	nonAchievers = make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Achieved {
			achievers = append(achievers, r.Name)
		} else {
			nonAchievers = append(nonAchievers, r.Name)
		}
	}
	return achievers, nonAchievers
}

// NewGoal contains information needed to register a weekly goal.
type NewGoal struct {
	Name      string `json:"name" validate:"required"`
	GoalHours int    `json:"goal_hours" validate:"required,goalhours"`
}

func (ng *NewGoal) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	return validate.Struct(ng)
}

// HourLog contains information needed to log studied hours for today.
type HourLog struct {
	Name    string `json:"name" validate:"required"`
	Hours   int    `json:"hours" validate:"required,gt=0"`
	Comment string `json:"comment"`
}

func (hl *HourLog) Validate(validate *validator.Validate) error {
	hl.Name = core.CleanString(hl.Name)
	hl.Comment = core.CleanString(hl.Comment)
	return validate.Struct(hl)
}

// LogResult reports an applied hour log. PrevSlotHours lets a client warn
// about double-accumulation when the slot was already non-zero.
type LogResult struct {
	Row            Row  `json:"row"`
	DayIndex       int  `json:"day_index"`
	PrevSlotHours  int  `json:"prev_slot_hours"`
	SlotAlreadySet bool `json:"slot_already_set"`
}

// UpdateRow defines what the stats grid may push back for a dirty row.
// StudiedHours is never accepted from the client; it is recomputed from the
// submitted day cells.
type UpdateRow struct {
	GoalHours  *int  `json:"goal_hours" validate:"omitempty,goalhours"`
	DailyHours []int `json:"daily_hours" validate:"required,len=7,dive,gte=0"`
}

func (ur *UpdateRow) Validate(validate *validator.Validate) error {
	return validate.Struct(ur)
}

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(goalHoursTag, goalHoursValidation)
	core.RegisterCustomTranslation(validate, translator, goalHoursTag, goalHoursText)
}
