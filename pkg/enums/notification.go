package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeOrderPlaced    NotificationType = "order_placed"
	NotificationTypeOrderConfirmed NotificationType = "order_confirmed"
	NotificationTypeOrderDelivered NotificationType = "order_delivered"
	NotificationTypeOrderCancelled NotificationType = "order_cancelled"
	NotificationTypeRiderAssigned  NotificationType = "rider_assigned"
	NotificationTypeRiderChanged   NotificationType = "rider_changed"
	NotificationTypePickupVerified NotificationType = "pickup_verified"
	NotificationTypeReviewReceived NotificationType = "review_received"
	NotificationTypeSupportUpdate  NotificationType = "support_update"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeOrderPlaced,
	NotificationTypeOrderConfirmed,
	NotificationTypeOrderDelivered,
	NotificationTypeOrderCancelled,
	NotificationTypeRiderAssigned,
	NotificationTypeRiderChanged,
	NotificationTypePickupVerified,
	NotificationTypeReviewReceived,
	NotificationTypeSupportUpdate,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
