package database

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	Email          string
	PasswordDigest string
	CreatedAt      time.Time
}
