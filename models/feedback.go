package models

import "time"

type FeedbackType string

const (
	FeedbackClass      FeedbackType = "class"
	FeedbackInstructor FeedbackType = "instructor"
	FeedbackStudio     FeedbackType = "studio"
)

func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackClass, FeedbackInstructor, FeedbackStudio:
		return true
	}
	return false
}

type Feedback struct {
	ID        string       `bson:"id" json:"id" firestore:"id"`
	UserID    string       `bson:"userId" json:"userId" firestore:"userId"`
	Type      FeedbackType `bson:"type" json:"type" firestore:"type"`
	TargetID  string       `bson:"targetId" json:"targetId" firestore:"targetId"`
	Rating    int          `bson:"rating" json:"rating" firestore:"rating"`
	Comment   string       `bson:"comment" json:"comment" firestore:"comment"`
	CreatedAt time.Time    `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

func (f Feedback) DocID() string { return f.ID }

// FeedbackStats is the rating fold for one target.
type FeedbackStats struct {
	Count        int         `json:"count"`
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
}
