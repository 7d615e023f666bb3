package admin

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/studyclub/core"
)

// Admin is an operator account allowed into the stats grid.
type Admin struct {
	ID           string    `json:"id"`
	Nickname     string    `json:"nickname"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (a *Admin) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Admin) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// NewAdmin contains information needed to create (or re-key) an operator
// account via the CLI.
type NewAdmin struct {
	Nickname string `json:"nickname" validate:"required,min=3,alphanum_"`
	Password string `json:"password" validate:"required"`
}

func (na *NewAdmin) Validate(validate *validator.Validate) error {
	na.Nickname = core.CleanString(na.Nickname, true /* lower */)
	return validate.Struct(na)
}

// Credentials is the login payload.
type Credentials struct {
	Nickname string `json:"nickname" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Nickname = core.CleanString(c.Nickname, true /* lower */)
	return validate.Struct(c)
}

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newAdminStructValidation, NewAdmin{})
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}
