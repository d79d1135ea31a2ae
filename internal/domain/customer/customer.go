package customer

import (
	"regexp"
	"strings"
	"time"

	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
)

// Membership is the customer loyalty tier
type Membership string

const (
	MembershipBronze Membership = "bronze"
	MembershipSilver Membership = "silver"
	MembershipGold   Membership = "gold"
)

// IsValid checks if the membership is a known tier
func (m Membership) IsValid() bool {
	switch m {
	case MembershipBronze, MembershipSilver, MembershipGold:
		return true
	}
	return false
}

var phonePattern = regexp.MustCompile(`^[0-9+\-() ]*$`)

// Customer is the store profile attached one-to-one to a user
type Customer struct {
	shared.BaseAggregateRoot
	UserID     uuid.UUID
	Phone      string
	BirthDate  *time.Time
	Membership Membership
}

// Profile holds the self-editable customer attributes.
// Nil fields are left unchanged.
type Profile struct {
	Phone      *string
	BirthDate  *time.Time
	Membership *Membership

	// ClearBirthDate removes the birth date even though BirthDate is nil
	ClearBirthDate bool
}

// New creates a bronze-tier customer for a user
func New(userID uuid.UUID) (*Customer, error) {
	if userID == uuid.Nil {
		return nil, shared.NewFieldError("user_id", "User is required")
	}
	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Membership:        MembershipBronze,
	}, nil
}

// Apply updates the profile fields that are set
func (c *Customer) Apply(profile Profile) error {
	phone := c.Phone
	if profile.Phone != nil {
		phone = strings.TrimSpace(*profile.Phone)
		if len(phone) > 255 {
			return shared.NewFieldError("phone", "Phone cannot exceed 255 characters")
		}
		if !phonePattern.MatchString(phone) {
			return shared.NewFieldError("phone", "Phone contains invalid characters")
		}
	}

	membership := c.Membership
	if profile.Membership != nil {
		if !profile.Membership.IsValid() {
			return shared.NewFieldError("membership", "Membership must be one of bronze, silver, gold")
		}
		membership = *profile.Membership
	}

	birthDate := c.BirthDate
	if profile.BirthDate != nil {
		if profile.BirthDate.After(time.Now()) {
			return shared.NewFieldError("birth_date", "Birth date cannot be in the future")
		}
		d := *profile.BirthDate
		birthDate = &d
	} else if profile.ClearBirthDate {
		birthDate = nil
	}

	c.Phone = phone
	c.Membership = membership
	c.BirthDate = birthDate
	c.Touch()
	return nil
}
