package utils

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var (
	adminNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_]*$`)

	anonAdjectives = []string{"Quiet", "Blue", "Soft", "Brave", "Lonely", "Gentle"}
	anonNouns      = []string{"River", "Sky", "Star", "Leaf", "Ocean", "Flame"}
)

// GenerateAnonUsername returns a display name like "GentleRiver42".
// Names are not unique; the account id is the identity.
func GenerateAnonUsername() string {
	return fmt.Sprintf("%s%s%d",
		anonAdjectives[rand.IntN(len(anonAdjectives))],
		anonNouns[rand.IntN(len(anonNouns))],
		rand.IntN(100),
	)
}

// ValidateUsername checks an admin login name: 3-20 letters, digits or
// underscores, not starting with an underscore.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	switch {
	case len(username) < MinUsernameLength:
		return &ValidationError{Field: "username", Message: fmt.Sprintf("Username must be at least %d characters", MinUsernameLength)}
	case len(username) > MaxUsernameLength:
		return &ValidationError{Field: "username", Message: fmt.Sprintf("Username must be at most %d characters", MaxUsernameLength)}
	case strings.HasPrefix(username, "_"):
		return &ValidationError{Field: "username", Message: "Username must start with a letter or number"}
	case !adminNamePattern.MatchString(username):
		return &ValidationError{Field: "username", Message: "Username can only contain letters, numbers, and underscores"}
	}
	return nil
}

// NormalizeUsername is the case-insensitive lookup key of an admin login.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidationError names the request field that failed and a message safe to
// show the client.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
