package platform

import (
	"fmt"
	"os"
	"regexp"
)

var ProjectKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]+$`)

func ValidateProjectKey(key string) error {
	if key == "" {
		return fmt.Errorf("tracker project key is required")
	}

	if !ProjectKeyPattern.MatchString(key) {
		return fmt.Errorf("invalid tracker project key format: expected [A-Z][A-Z0-9]+")
	}

	return nil
}

func ValidateNotEmpty(value string, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// RequireEnv returns an error naming the first variable that is not set.
func RequireEnv(keys ...string) error {
	for _, key := range keys {
		if os.Getenv(key) == "" {
			return fmt.Errorf("%s environment variable is not set", key)
		}
	}
	return nil
}
