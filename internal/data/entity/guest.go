package entity

import "github.com/google/uuid"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Guest belongs to a user, not to a booking.
type Guest struct {
	BaseSimple
	UserID uuid.UUID `db:"user_id"`
	Name   string    `db:"name"`
	Gender Gender    `db:"gender"`
	Age    int       `db:"age"`
}
