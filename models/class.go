package models

import "time"

// Class is a bookable activity. BusinessID mirrors the owning studio's
// BusinessID and is set from it when the class is created.
type Class struct {
	ID           string    `bson:"id" json:"id" firestore:"id"`
	StudioID     string    `bson:"studioId" json:"studioId" firestore:"studioId"`
	BusinessID   string    `bson:"businessId" json:"businessId" firestore:"businessId"`
	Name         string    `bson:"name" json:"name" firestore:"name"`
	Capacity     int       `bson:"capacity" json:"capacity" firestore:"capacity"`
	Price        float64   `bson:"price" json:"price" firestore:"price"`
	InstructorID string    `bson:"instructorId,omitempty" json:"instructorId,omitempty" firestore:"instructorId,omitempty"`
	Schedule     string    `bson:"schedule" json:"schedule" firestore:"schedule"` // free-form, e.g. "Mon 18:00"
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

func (c Class) DocID() string           { return c.ID }
func (c Class) OwnerBusinessID() string { return c.BusinessID }
