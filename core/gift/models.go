package gift

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studyclub/core"
)

// Game presentations. Both run the same uniform draw; the wheel additionally
// gets a SpinPlan so its animation lands on the drawn winner.
const (
	GameWheel = "wheel"
	GameBalls = "balls"
)

// Record is one completed penalty-game run: a non-achiever sends a gift to a
// randomly drawn achiever. Append-only, never mutated.
type Record struct {
	ID        string    `json:"id"`
	WeekKey   string    `json:"week_key"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// PlayRequest contains information needed to run the game.
type PlayRequest struct {
	From string `json:"from" validate:"required"`
	Game string `json:"game" validate:"omitempty,oneof=wheel balls"`
}

func (pr *PlayRequest) Validate(validate *validator.Validate) error {
	pr.From = core.CleanString(pr.From)
	pr.Game = core.CleanString(pr.Game, true /* lower */)
	return validate.Struct(pr)
}

// Result reports a completed draw.
type Result struct {
	Record      Record `json:"record"`
	Winner      string `json:"winner"`
	WinnerIndex int    `json:"winner_index"`
	Spin        *Spin  `json:"spin,omitempty"` // wheel presentation only
}
