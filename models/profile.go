package models

import "time"

type Profile struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	AvatarKey    *string   `json:"-" db:"avatar_key"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"-"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
