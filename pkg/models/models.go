package models

import (
	"time"
)

// UserSettings представляет сохраненные настройки синтеза пользователя
type UserSettings struct {
	UserID     int64     `json:"user_id" db:"user_id"`
	Voice      string    `json:"voice" db:"voice"`
	Role       string    `json:"role" db:"role"`
	Speed      string    `json:"speed" db:"speed"`
	AutoFormat bool      `json:"auto_format" db:"auto_format"`
	UseMarkup  bool      `json:"use_markup" db:"use_markup"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
