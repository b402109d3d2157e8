package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentVerified   = "payment.verified"
	EventTypePaymentRejected   = "payment.rejected"
	EventTypeMemberRegistered  = "member.registered"
	EventTypeNonMemberApproved = "member.approved"
)

type PaymentVerifiedEvent struct {
	BaseEvent
	MemberID    string `json:"member_id"`
	PaymentID   string `json:"payment_id"`
	OrderID     string `json:"order_id"`
	AmountMinor int64  `json:"amount_minor"`
}

func NewPaymentVerifiedEvent(memberID, paymentID, orderID string, amountMinor int64) *PaymentVerifiedEvent {
	return &PaymentVerifiedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentVerified,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"member_id":    memberID,
				"payment_id":   paymentID,
				"order_id":     orderID,
				"amount_minor": amountMinor,
			},
		},
		MemberID:    memberID,
		PaymentID:   paymentID,
		OrderID:     orderID,
		AmountMinor: amountMinor,
	}
}

type PaymentRejectedEvent struct {
	BaseEvent
	MemberID  string `json:"member_id"`
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Reason    string `json:"reason"`
}

func NewPaymentRejectedEvent(memberID, paymentID, orderID, reason string) *PaymentRejectedEvent {
	return &PaymentRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"member_id":  memberID,
				"payment_id": paymentID,
				"order_id":   orderID,
				"reason":     reason,
			},
		},
		MemberID:  memberID,
		PaymentID: paymentID,
		OrderID:   orderID,
		Reason:    reason,
	}
}

type MemberRegisteredEvent struct {
	BaseEvent
	MemberID string `json:"member_id"`
	Email    string `json:"email"`
}

func NewMemberRegisteredEvent(memberID, email string) *MemberRegisteredEvent {
	return &MemberRegisteredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeMemberRegistered,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"member_id": memberID,
				"email":     email,
			},
		},
		MemberID: memberID,
		Email:    email,
	}
}
