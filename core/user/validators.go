package user

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid role"

	// password policy: plain minimum length. Exactly pwdMinLen characters is accepted.
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)
)

// allRolesValidation checks that the provided role is in AllRoles.
func allRolesValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}

func pwdMinLenValidation(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) >= pwdMinLen
}
