package member

import (
	"github.com/amala-code/new-admin-backend/internal/core/common/validation"
)

// RegisterMemberRequest is the payload for both registration endpoints; the
// external id is required only when the caller supplies it.
type RegisterMemberRequest struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Address                string  `json:"address"`
	Email                  string  `json:"email"`
	Phone                  string  `json:"phone"`
	YearOfJoining          int     `json:"year_of_joining"`
	MemberTrue             bool    `json:"member_true"`
	AmountPaidTotal        float64 `json:"amount_paid_total"`
	AmountPaidRegistration float64 `json:"amount_paid_registration"`
	AmountPaidSubscription float64 `json:"amount_paid_subscription"`
	AmountSubscription     bool    `json:"amount_subscription"`
	DateOfSubscription     *string `json:"date_of_subscription,omitempty"`
	TransactionID          *string `json:"transaction_id,omitempty"`
}

func (r *RegisterMemberRequest) Validate(requireID bool) error {
	validator := validation.NewValidator()

	validator.Field("name", r.Name).Required().MaxLength(120)
	validator.Field("address", r.Address).Required()
	validator.Field("email", r.Email).Required().Email()
	validator.Field("phone", r.Phone).Required().MaxLength(20)
	if requireID {
		validator.Field("id", r.ID).Required()
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// UpdateMemberRequest carries a partial update; nil fields are untouched.
type UpdateMemberRequest struct {
	Name                   *string  `json:"name,omitempty"`
	Address                *string  `json:"address,omitempty"`
	Email                  *string  `json:"email,omitempty"`
	Phone                  *string  `json:"phone,omitempty"`
	YearOfJoining          *int     `json:"year_of_joining,omitempty"`
	AmountPaidTotal        *float64 `json:"amount_paid_total,omitempty"`
	MemberTrue             *bool    `json:"member_true,omitempty"`
	AmountPaidRegistration *float64 `json:"amount_paid_registration,omitempty"`
	AmountPaidSubscription *float64 `json:"amount_paid_subscription,omitempty"`
	AmountSubscription     *bool    `json:"amount_subscription,omitempty"`
	DateOfSubscription     *string  `json:"date_of_subscription,omitempty"`
	TransactionID          *string  `json:"transaction_id,omitempty"`
}

// Fields flattens the set pointers into column-keyed update values.
func (r *UpdateMemberRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Address != nil {
		fields["address"] = *r.Address
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	if r.Phone != nil {
		fields["phone"] = *r.Phone
	}
	if r.YearOfJoining != nil {
		fields["year_of_joining"] = *r.YearOfJoining
	}
	if r.AmountPaidTotal != nil {
		fields["amount_paid_total"] = *r.AmountPaidTotal
	}
	if r.MemberTrue != nil {
		fields["member_true"] = *r.MemberTrue
	}
	if r.AmountPaidRegistration != nil {
		fields["amount_paid_registration"] = *r.AmountPaidRegistration
	}
	if r.AmountPaidSubscription != nil {
		fields["amount_paid_subscription"] = *r.AmountPaidSubscription
	}
	if r.AmountSubscription != nil {
		fields["amount_subscription"] = *r.AmountSubscription
	}
	if r.DateOfSubscription != nil {
		fields["date_of_subscription"] = *r.DateOfSubscription
	}
	if r.TransactionID != nil {
		fields["transaction_id"] = *r.TransactionID
	}
	return fields
}

type PhoneLookupRequest struct {
	Phone string `json:"phone"`
}

func (r *PhoneLookupRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("phone", r.Phone).Required()
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type PhoneLookupResponse struct {
	MemberID string `json:"member_id"`
	ID       string `json:"id"`
	Name     string `json:"name"`
}

type RegisterNonMemberRequest struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email string  `json:"email"`
	Note  *string `json:"note,omitempty"`
}

func (r *RegisterNonMemberRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("name", r.Name).Required()
	validator.Field("phone", r.Phone).Required()
	validator.Field("email", r.Email).Required().Email()
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type TotalPaidResponse struct {
	TotalMembers    int64   `json:"total_members"`
	TotalAmountPaid float64 `json:"total_amount_paid"`
}
