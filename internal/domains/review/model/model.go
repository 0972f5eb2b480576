package model

import (
	"rental/shared/model"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID         = "id"
	FieldReviewerID = "reviewer_id"
	FieldTargetType = "target_type"
	FieldTargetID   = "target_id"
	FieldBookingID  = "booking_id"
	FieldRating     = "rating"
	FieldComment    = "comment"
)

const (
	TargetTypeListing = "listing"
	TargetTypeUser    = "user"
)

// Target is what a review is about. It is either a ListingTarget or a UserTarget.
type Target interface {
	targetType() string
	targetID() string
}

type ListingTarget struct {
	ListingID string
}

func (t ListingTarget) targetType() string { return TargetTypeListing }
func (t ListingTarget) targetID() string   { return t.ListingID }

type UserTarget struct {
	UserID string
}

func (t UserTarget) targetType() string { return TargetTypeUser }
func (t UserTarget) targetID() string   { return t.UserID }

// TargetColumns returns the stored discriminator and id of target.
func TargetColumns(target Target) (targetType, targetID string) {
	return target.targetType(), target.targetID()
}

type Review struct {
	ID         string  `db:"id"`
	ReviewerID string  `db:"reviewer_id"`
	TargetType string  `db:"target_type"`
	TargetID   string  `db:"target_id"`
	BookingID  *string `db:"booking_id"`
	Rating     int     `db:"rating"`
	Comment    *string `db:"comment"`
	model.Metadata
}

// Target rebuilds the union from the stored columns; unknown types yield nil.
func (r Review) Target() Target {
	switch r.TargetType {
	case TargetTypeListing:
		return ListingTarget{ListingID: r.TargetID}
	case TargetTypeUser:
		return UserTarget{UserID: r.TargetID}
	default:
		return nil
	}
}

// Stats aggregates the reviews of one target.
type Stats struct {
	Count         int     `db:"review_count"`
	AverageRating float64 `db:"average_rating"`
}

// Below reports whether the target has more than minReviews reviews averaging under minRating.
func (s Stats) Below(minReviews int, minRating float64) bool {
	return s.Count > minReviews && s.AverageRating < minRating
}
