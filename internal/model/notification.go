package model

// Permission mirrors the OS-level notification permission state. The engine
// only reads it; granting and denying happen outside.
type Permission string

const (
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
	PermissionUndetermined Permission = "undetermined"
)

func (p Permission) IsValid() bool {
	switch p {
	case PermissionGranted, PermissionDenied, PermissionUndetermined:
		return true
	default:
		return false
	}
}

type NotificationSettings struct {
	Enabled           bool `json:"enabled"`
	DeadlineReminders bool `json:"deadline_reminders"`
	DailyDigest       bool `json:"daily_digest"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:           false,
		DeadlineReminders: true,
		DailyDigest:       true,
	}
}

// NotificationSettingsPatch applies partial updates; nil fields keep the
// current value.
type NotificationSettingsPatch struct {
	Enabled           *bool
	DeadlineReminders *bool
	DailyDigest       *bool
}

func (s NotificationSettings) Apply(patch NotificationSettingsPatch) NotificationSettings {
	out := s
	if patch.Enabled != nil {
		out.Enabled = *patch.Enabled
	}
	if patch.DeadlineReminders != nil {
		out.DeadlineReminders = *patch.DeadlineReminders
	}
	if patch.DailyDigest != nil {
		out.DailyDigest = *patch.DailyDigest
	}
	return out
}
