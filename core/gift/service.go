package gift

import (
	"context"
	"math/rand"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/studyclub/core"
	"github.com/trezcool/studyclub/core/study"
)

var (
	// NowFunc returns "now"; mockable in tests.
	NowFunc = time.Now

	// errors
	ErrGameNotReady = errors.New("at least one achiever and one non-achiever are required")
	ErrDrawInFlight = errors.New("a draw is already in progress for this week")

	errNotNonAchiever = "must be one of this week's non-achievers"
)

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		// QueryRecords returns a week's records, newest first by default.
		QueryRecords(ctx context.Context, weekKey string, ordering ...core.DBOrdering) ([]Record, error)
		DeleteWeekRecords(ctx context.Context, weekKey string) error
	}

	Service struct {
		repo     Repository
		studySvc *study.Service
		mailSvc  core.EmailService
		conf     *core.Config

		rndMu sync.Mutex
		rnd   *rand.Rand

		flightMu sync.Mutex
		inFlight map[string]bool // weekKey -> draw running
	}
)

func NewService(repo Repository, studySvc *study.Service, mailSvc core.EmailService, conf *core.Config, rnd *rand.Rand) *Service {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		repo:     repo,
		studySvc: studySvc,
		mailSvc:  mailSvc,
		conf:     conf,
		rnd:      rnd,
		inFlight: make(map[string]bool),
	}
}

// acquire marks a week's draw as in-flight; the game stays disabled until
// the running draw completes.
func (svc *Service) acquire(weekKey string) error {
	svc.flightMu.Lock()
	defer svc.flightMu.Unlock()
	if svc.inFlight[weekKey] {
		return ErrDrawInFlight
	}
	svc.inFlight[weekKey] = true
	return nil
}

func (svc *Service) release(weekKey string) {
	svc.flightMu.Lock()
	defer svc.flightMu.Unlock()
	delete(svc.inFlight, weekKey)
}

// draw performs the single uniform selection, independent of any
// presentation or animation timing.
func (svc *Service) draw(achievers []string) int {
	svc.rndMu.Lock()
	defer svc.rndMu.Unlock()
	return svc.rnd.Intn(len(achievers))
}

// Play runs the penalty game for a week: one uniform draw over the week's
// achievers, one appended Record. Only allowed while both the achiever and
// non-achiever sets are non-empty, and `from` must be a non-achiever.
func (svc *Service) Play(ctx context.Context, weekKey string, pr PlayRequest) (Result, error) {
	board, err := svc.studySvc.WeekBoard(ctx, weekKey)
	if err != nil {
		return Result{}, errors.Wrap(err, "loading week board")
	}
	if len(board.Achievers) == 0 || len(board.NonAchievers) == 0 {
		return Result{}, ErrGameNotReady
	}

	var fromOK bool
	for _, name := range board.NonAchievers {
		if name == pr.From {
			fromOK = true
			break
		}
	}
	if !fromOK {
		return Result{}, core.NewValidationError(nil, core.FieldError{Field: "from", Error: errNotNonAchiever})
	}

	if err = svc.acquire(weekKey); err != nil {
		return Result{}, err
	}
	defer svc.release(weekKey)

	idx := svc.draw(board.Achievers)
	winner := board.Achievers[idx]

	rec := Record{
		ID:        uuid.New().String(),
		WeekKey:   weekKey,
		From:      pr.From,
		To:        winner,
		CreatedAt: NowFunc().UTC(),
	}
	rec, err = svc.repo.CreateRecord(ctx, rec)
	if err != nil {
		return Result{}, errors.Wrap(err, "creating gift record")
	}

	svc.notify(rec)

	res := Result{Record: rec, Winner: winner, WinnerIndex: idx}
	if pr.Game == GameWheel {
		svc.rndMu.Lock()
		spin := SpinPlan(idx, len(board.Achievers), svc.rnd)
		svc.rndMu.Unlock()
		res.Spin = &spin
	}
	return res, nil
}

// notify emails the operator mailbox about a completed game, when configured.
func (svc *Service) notify(rec Record) {
	if svc.mailSvc == nil || svc.conf.OperatorEmail == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: svc.conf.OperatorEmail}},
		Subject:      "벌칙 게임 결과: " + rec.From + " ➜ " + rec.To,
		TemplateName: "gift-notice",
		TemplateData: rec,
	})
}

// QueryWeek lists a week's gift history.
func (svc *Service) QueryWeek(ctx context.Context, weekKey string, ordering ...core.DBOrdering) ([]Record, error) {
	recs, err := svc.repo.QueryRecords(ctx, weekKey, ordering...)
	if err != nil {
		return nil, errors.Wrap(err, "querying gift records")
	}
	return recs, nil
}

// ResetWeek wipes a week's gift history alongside the participant reset.
func (svc *Service) ResetWeek(ctx context.Context, weekKey string) error {
	return svc.repo.DeleteWeekRecords(ctx, weekKey)
}
