package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Cook is a kitchen staff member and also the login account.
type Cook struct {
	bun.BaseModel `bun:"table:cooks,alias:cook"`

	ID                int64      `bun:"id,pk,autoincrement"`
	Username          string     `bun:"username,notnull,unique"`
	PasswordHash      string     `bun:"password_hash,notnull"`
	FirstName         string     `bun:"first_name,notnull,default:''"`
	LastName          string     `bun:"last_name,notnull,default:''"`
	YearsOfExperience int        `bun:"years_of_experience,notnull,default:0"`
	IsStaff           bool       `bun:"is_staff,notnull"`
	IsActive          bool       `bun:"is_active,notnull"`
	DateJoined        time.Time  `bun:"date_joined,notnull,default:current_timestamp"`
	LastLogin         *time.Time `bun:"last_login"`

	// Relations
	Dishes []*Dish `bun:"m2m:dish_cooks,join:Cook=Dish"`
}

// FullName returns "First Last", or the username when both are blank.
func (c *Cook) FullName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Username
	}
	return name
}
