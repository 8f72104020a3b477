package models

import "time"

type Role string

const (
	RoleUser    Role = "user"
	RolePartner Role = "partner"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RolePartner
}

// User is a registered account. Role is fixed at signup.
type User struct {
	ID           string    `bson:"id" json:"id" firestore:"id"`
	Email        string    `bson:"email" json:"email" firestore:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-" firestore:"passwordHash"`
	FirstName    string    `bson:"firstName" json:"firstName" firestore:"firstName"`
	LastName     string    `bson:"lastName" json:"lastName" firestore:"lastName"`
	Role         Role      `bson:"role" json:"role" firestore:"role"`
	BusinessRef  string    `bson:"businessRef,omitempty" json:"businessRef,omitempty" firestore:"businessRef,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

func (u User) DocID() string { return u.ID }

func (u User) IsPartner() bool { return u.Role == RolePartner }
