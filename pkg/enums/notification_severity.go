package enums

import "fmt"

// NotificationSeverity classifies user-facing notifications.
type NotificationSeverity string

const (
	NotificationError   NotificationSeverity = "error"
	NotificationSuccess NotificationSeverity = "success"
	NotificationWarning NotificationSeverity = "warning"
)

var validNotificationSeverities = []NotificationSeverity{
	NotificationError,
	NotificationSuccess,
	NotificationWarning,
}

// String implements fmt.Stringer.
func (n NotificationSeverity) String() string {
	return string(n)
}

// IsValid reports whether the severity is recognized.
func (n NotificationSeverity) IsValid() bool {
	for _, candidate := range validNotificationSeverities {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationSeverity converts a raw string into a NotificationSeverity.
func ParseNotificationSeverity(value string) (NotificationSeverity, error) {
	for _, candidate := range validNotificationSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification severity %q", value)
}
