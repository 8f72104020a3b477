package models

import "time"

type Studio struct {
	ID         string    `bson:"id" json:"id" firestore:"id"`
	BusinessID string    `bson:"businessId" json:"businessId" firestore:"businessId"`
	Name       string    `bson:"name" json:"name" firestore:"name"`
	Address    string    `bson:"address,omitempty" json:"address,omitempty" firestore:"address,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

func (s Studio) DocID() string           { return s.ID }
func (s Studio) OwnerBusinessID() string { return s.BusinessID }
