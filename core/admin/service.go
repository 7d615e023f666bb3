package admin

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyclub/core"
)

var (
	// NowFunc returns "now"; mockable in tests.
	NowFunc = time.Now

	// errors
	ErrNotFound = errors.New("admin not found")

	// one message for both unknown nickname and wrong password, so a failed
	// login does not reveal which one it was
	errBadCredentials = "nickname or password incorrect"
)

type (
	Repository interface {
		GetAdminByNickname(ctx context.Context, nickname string) (Admin, error)
		GetAdminByID(ctx context.Context, id string) (Admin, error)
		// UpdateOrCreateAdmin upserts by nickname.
		UpdateOrCreateAdmin(ctx context.Context, adm Admin) (Admin, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate checks credentials and, on success, stamps LastLogin.
// Failures surface as a recoverable ValidationError, never a panic or leak.
func (svc *Service) Authenticate(ctx context.Context, creds Credentials) (Admin, error) {
	adm, err := svc.repo.GetAdminByNickname(ctx, creds.Nickname)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Admin{}, core.NewValidationError(errors.New(errBadCredentials))
		}
		return Admin{}, errors.Wrap(err, "finding admin by nickname")
	}
	if err = adm.CheckPassword(creds.Password); err != nil {
		return Admin{}, core.NewValidationError(errors.New(errBadCredentials))
	}

	adm.LastLogin = NowFunc().UTC()
	adm, err = svc.repo.UpdateOrCreateAdmin(ctx, adm)
	if err != nil {
		return Admin{}, errors.Wrap(err, "setting lastLogin")
	}
	return adm, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Admin, error) {
	return svc.repo.GetAdminByID(ctx, id)
}

func (svc *Service) GetByNickname(ctx context.Context, nickname string) (Admin, error) {
	return svc.repo.GetAdminByNickname(ctx, core.CleanString(nickname, true /* lower */))
}

// Create registers (or re-keys) an operator account.
func (svc *Service) Create(ctx context.Context, na NewAdmin) (Admin, error) {
	adm, err := svc.repo.GetAdminByNickname(ctx, na.Nickname)
	switch errors.Cause(err) {
	case nil:
	case ErrNotFound:
		adm = Admin{Nickname: na.Nickname, CreatedAt: NowFunc().UTC()}
	default:
		return Admin{}, errors.Wrap(err, "finding admin by nickname")
	}

	if err = adm.SetPassword(na.Password); err != nil {
		return Admin{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.UpdateOrCreateAdmin(ctx, adm)
}
