package models

import (
	"time"

	"github.com/sorvetesinacio/storefront/pkg/enums"
)

// User represents the canonical identity entity.
// Password holds whatever the comparison layer understands: the seed
// fixtures are plaintext, callers may store an argon2id hash instead.
type User struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
}
