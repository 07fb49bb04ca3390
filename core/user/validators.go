package user

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/shuletech/shule/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"

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
	pwdAttrSimText = "password cannot be similar to user attributes"

	numericRegex = regexp.MustCompile(`^\d+$`)
)

// InitValidators registers this package's custom validators on the shared
// validator. Must be called after core.InitValidation.
func InitValidators() {
	_ = core.Validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(allRolesTag, allRolesText)

	core.Validate.RegisterStructValidation(newUserStructValidation, NewUser{})
	core.Validate.RegisterStructValidation(updateUserStructValidation, UpdateUser{})
	core.RegisterCustomTranslation(pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// allRolesValidation checks that all provided roles are known.
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	for _, role := range roles {
		if RolePriority(role) == 0 {
			return false
		}
	}
	return true
}

func newUserStructValidation(sl validator.StructLevel) {
	nu, ok := sl.Current().Interface().(NewUser)
	if !ok {
		return
	}
	validatePassword(sl, nu.Password, "Password", []string{nu.Name, nu.Username, nu.Email})
}

func updateUserStructValidation(sl validator.StructLevel) {
	uu, ok := sl.Current().Interface().(UpdateUser)
	if !ok {
		return
	}
	if uu.Password == "" {
		return
	}
	validatePassword(sl, uu.Password, "Password", []string{uu.Name, uu.Username, uu.Email})
}

// validatePassword applies the password policy: length, whitespace, not all
// numeric and not too similar to the user's own attributes (difflib ratio).
func validatePassword(sl validator.StructLevel, pwd, fieldName string, attrs []string) {
	if pwd == "" {
		return
	}
	if len(pwd) < pwdMinLen {
		sl.ReportError(pwd, fieldName, fieldName, pwdMinLenTag, "")
	}
	if strings.IndexFunc(pwd, unicode.IsSpace) >= 0 {
		sl.ReportError(pwd, fieldName, fieldName, pwdNoSpaceTag, "")
	}
	if numericRegex.MatchString(pwd) {
		sl.ReportError(pwd, fieldName, fieldName, pwdNotAllNumTag, "")
	}

	lowerPwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		matcher := difflib.NewMatcher(strings.Split(lowerPwd, ""), strings.Split(strings.ToLower(attr), ""))
		if matcher.QuickRatio() >= pwdMaxSim {
			sl.ReportError(pwd, fieldName, fieldName, pwdAttrSimTag, "")
			break
		}
	}
}
