package models

import "time"

const (
	SettingMilkRate            = "milk_rate"
	SettingDefaultStartingMilk = "default_starting_milk"
	SettingPasswordHash        = "app_password_hash"
	SettingSecurityQuestion    = "security_question"
	SettingSecurityAnswerHash  = "security_answer_hash"
	SettingAuthSetup           = "is_auth_setup"
)

// Setting: key/value application settings (milk rate, default milk, auth secrets).
type Setting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
