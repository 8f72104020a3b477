package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingNoShow    BookingStatus = "no-show"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

// ActiveStatuses are the statuses that hold a seat.
var ActiveStatuses = []BookingStatus{BookingPending, BookingConfirmed}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// GuestDetails identifies a walk-in customer without an account.
type GuestDetails struct {
	FirstName string `bson:"firstName" json:"firstName" firestore:"firstName" validate:"required"`
	LastName  string `bson:"lastName" json:"lastName" firestore:"lastName" validate:"required"`
	Email     string `bson:"email" json:"email" firestore:"email" validate:"required,email"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty" firestore:"phone,omitempty"`
}

// Booking reserves Participants seats of a class on ClassDate.
// Exactly one of UserID and Guest is set. BusinessID and StudioID are
// copied from the class at creation and never re-derived.
type Booking struct {
	ID              string        `bson:"id" json:"id" firestore:"id"`
	UserID          string        `bson:"userId,omitempty" json:"userId,omitempty" firestore:"userId,omitempty"`
	Guest           *GuestDetails `bson:"guest,omitempty" json:"userDetails,omitempty" firestore:"guest,omitempty"`
	ClassID         string        `bson:"classId" json:"classId" firestore:"classId"`
	StudioID        string        `bson:"studioId" json:"studioId" firestore:"studioId"`
	BusinessID      string        `bson:"businessId" json:"businessId" firestore:"businessId"`
	Status          BookingStatus `bson:"status" json:"status" firestore:"status"`
	PaymentStatus   PaymentStatus `bson:"paymentStatus" json:"paymentStatus" firestore:"paymentStatus"`
	PaymentMethod   string        `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty" firestore:"paymentMethod,omitempty"`
	ClassDate       string        `bson:"classDate" json:"classDate" firestore:"classDate"` // YYYY-MM-DD
	Price           float64       `bson:"price" json:"price" firestore:"price"`
	Participants    int           `bson:"participants" json:"participants" firestore:"participants"`
	BusinessNotes   []string      `bson:"businessNotes" json:"businessNotes" firestore:"businessNotes"`
	StatusUpdatedAt *time.Time    `bson:"statusUpdatedAt,omitempty" json:"statusUpdatedAt,omitempty" firestore:"statusUpdatedAt,omitempty"`
	StatusUpdatedBy string        `bson:"statusUpdatedBy,omitempty" json:"statusUpdatedBy,omitempty" firestore:"statusUpdatedBy,omitempty"`
	CreatedBy       string        `bson:"createdBy,omitempty" json:"createdBy,omitempty" firestore:"createdBy,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt" firestore:"updatedAt"`
}

func (b Booking) DocID() string           { return b.ID }
func (b Booking) OwnerBusinessID() string { return b.BusinessID }

// IsGuest reports whether the booking was made for a walk-in customer.
func (b Booking) IsGuest() bool { return b.Guest != nil }

// BookingStats summarizes a set of bookings by status.
type BookingStats struct {
	TotalBookings     int `json:"totalBookings"`
	ConfirmedBookings int `json:"confirmedBookings"`
	CancelledBookings int `json:"cancelledBookings"`
	PendingBookings   int `json:"pendingBookings"`
}
