package domain

import (
	"fmt"
	"regexp"
	"time"
)

var loginPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,64}$`)

// User is a registered account. The recovery question/answer pair is used for
// password reset; the answer is stored hashed, never in the clear.
type User struct {
	ID                 string
	Login              string
	PasswordHash       string
	RecoveryQuestion   string
	RecoveryAnswerHash string
	CreatedAt          time.Time
}

// ValidateLogin checks that the login name is well-formed.
func ValidateLogin(login string) error {
	if !loginPattern.MatchString(login) {
		return fmt.Errorf("login must be 3-64 characters of letters, digits, '.', '_' or '-'")
	}
	return nil
}
