package enums

import "fmt"

// NotificationAudience selects who a notification is delivered to.
type NotificationAudience string

const (
	NotificationAudienceBroadcast NotificationAudience = "broadcast"
	NotificationAudienceCustomer  NotificationAudience = "customer"
)

var validNotificationAudiences = []NotificationAudience{
	NotificationAudienceBroadcast,
	NotificationAudienceCustomer,
}

// String implements fmt.Stringer.
func (n NotificationAudience) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationAudience.
func (n NotificationAudience) IsValid() bool {
	for _, candidate := range validNotificationAudiences {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationAudience converts raw input into a NotificationAudience.
func ParseNotificationAudience(value string) (NotificationAudience, error) {
	for _, candidate := range validNotificationAudiences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification audience %q", value)
}
