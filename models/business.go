package models

import "time"

type Plan string

const (
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

// PlanLimits caps how many resources a business may create.
type PlanLimits struct {
	MaxStudios int
	MaxClasses int
}

var planLimits = map[Plan]PlanLimits{
	PlanBasic:   {MaxStudios: 1, MaxClasses: 10},
	PlanPremium: {MaxStudios: 10, MaxClasses: 200},
}

func (p Plan) Valid() bool {
	_, ok := planLimits[p]
	return ok
}

// Limits returns the plan's caps; unknown plans get basic limits.
func (p Plan) Limits() PlanLimits {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanBasic]
}

// Business is the tenant a partner user owns.
type Business struct {
	ID        string    `bson:"id" json:"id" firestore:"id"`
	OwnerID   string    `bson:"ownerId" json:"ownerId" firestore:"ownerId"`
	Name      string    `bson:"name" json:"name" firestore:"name"`
	Plan      Plan      `bson:"plan" json:"plan" firestore:"plan"`
	StudioIDs []string  `bson:"studioIds" json:"studioIds" firestore:"studioIds"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

func (b Business) DocID() string { return b.ID }
