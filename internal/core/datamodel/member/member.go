package member

import "time"

// Member is the persistence model for a membership record. ExternalID is the
// organisation-assigned id ("id" in the public API), distinct from the store
// primary key.
type Member struct {
	ID                     int64     `gorm:"primaryKey" bson:"-" json:"-"`
	ExternalID             string    `gorm:"column:external_id;uniqueIndex;not null" bson:"id" json:"id"`
	Name                   string    `gorm:"column:name;not null" bson:"name" json:"name"`
	Address                string    `gorm:"column:address" bson:"address" json:"address"`
	Email                  string    `gorm:"column:email;uniqueIndex;not null" bson:"email" json:"email"`
	Phone                  string    `gorm:"column:phone;index" bson:"phone" json:"phone"`
	YearOfJoining          int       `gorm:"column:year_of_joining" bson:"year_of_joining" json:"year_of_joining"`
	MemberTrue             bool      `gorm:"column:member_true;default:false" bson:"member_true" json:"member_true"`
	AmountPaidTotal        float64   `gorm:"column:amount_paid_total;default:0" bson:"amount_paid_total" json:"amount_paid_total"`
	AmountPaidRegistration float64   `gorm:"column:amount_paid_registration;default:0" bson:"amount_paid_registration" json:"amount_paid_registration"`
	AmountPaidSubscription float64   `gorm:"column:amount_paid_subscription;default:0" bson:"amount_paid_subscription" json:"amount_paid_subscription"`
	AmountSubscription     bool      `gorm:"column:amount_subscription;default:false" bson:"amount_subscription" json:"amount_subscription"`
	DateOfSubscription     *string   `gorm:"column:date_of_subscription" bson:"date_of_subscription,omitempty" json:"date_of_subscription,omitempty"`
	TransactionID          *string   `gorm:"column:transaction_id" bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	CreatedAt              time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" bson:"created_at" json:"-"`
	UpdatedAt              time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" bson:"updated_at" json:"-"`
}

func (Member) TableName() string {
	return "members"
}

// NonMember is a pending membership request submitted by someone who is not
// yet a member. Approval promotes it into the members collection.
type NonMember struct {
	ID        int64     `gorm:"primaryKey" bson:"-" json:"-"`
	RequestID string    `gorm:"column:request_id;uniqueIndex;not null" bson:"request_id" json:"request_id"`
	Name      string    `gorm:"column:name;not null" bson:"name" json:"name"`
	Phone     string    `gorm:"column:phone;not null" bson:"phone" json:"phone"`
	Email     string    `gorm:"column:email;not null" bson:"email" json:"email"`
	Note      *string   `gorm:"column:note" bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" bson:"created_at" json:"-"`
}

func (NonMember) TableName() string {
	return "non_members"
}

// ProcessedPayment records every gateway payment id already applied to a
// member ledger. The unique index on payment_id is what rejects a second
// application of the same payment.
type ProcessedPayment struct {
	ID          int64     `gorm:"primaryKey" bson:"-"`
	PaymentID   string    `gorm:"column:payment_id;uniqueIndex;not null" bson:"payment_id"`
	MemberID    string    `gorm:"column:member_id;not null" bson:"member_id"`
	OrderID     string    `gorm:"column:order_id" bson:"order_id"`
	AmountMinor int64     `gorm:"column:amount_minor;not null" bson:"amount_minor"`
	CreatedAt   time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" bson:"created_at"`
}

func (ProcessedPayment) TableName() string {
	return "processed_payments"
}
