package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Password and ConfirmPassword hold
// bcrypt digests, never plaintext. ConfirmPassword mirrors Password at
// registration but the two can diverge after a partial update that
// touches only one of them; that matches the system this service
// replaces and is kept deliberately.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName        string             `bson:"fullName" json:"fullName"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone" json:"phone"`
	Password        string             `bson:"password" json:"password"`
	ConfirmPassword string             `bson:"confirmPassword" json:"confirmPassword"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserUpdate is a sparse profile update: nil fields are left untouched
// on the stored record. Password and ConfirmPassword carry bcrypt
// digests by the time the update reaches the store.
type UserUpdate struct {
	FullName        *string
	Email           *string
	Phone           *string
	Password        *string
	ConfirmPassword *string
}

// Empty reports whether the update carries no fields at all.
func (u UserUpdate) Empty() bool {
	return u.FullName == nil && u.Email == nil && u.Phone == nil &&
		u.Password == nil && u.ConfirmPassword == nil
}
