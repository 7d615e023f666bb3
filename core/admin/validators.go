package admin

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to the nickname"
)

// newAdminStructValidation applies the password policy to NewAdmin:
// - minLen: 8
// - no whitespace
// - not all numeric
// - no nickname similarity
func newAdminStructValidation(sl validator.StructLevel) {
	na, ok := sl.Current().Interface().(NewAdmin)
	if !ok {
		return
	}
	pwd := na.Password

	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	pwdLen := len(pwd)
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}

	var digitCount int
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}
	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	if na.Nickname != "" {
		matcher := difflib.NewMatcher(strings.Split(strings.ToLower(pwd), ""), strings.Split(na.Nickname, ""))
		if matcher.QuickRatio() >= pwdMaxSim {
			reportErr(pwdAttrSimTag)
		}
	}
}
