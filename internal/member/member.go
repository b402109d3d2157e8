package member

import (
	"context"
	"errors"

	memberdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/member"
)

var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrDuplicateMember   = errors.New("member with this ID or email already exists")
	ErrDuplicateContact  = errors.New("member with this phone or email already exists")
	ErrRequestNotFound   = errors.New("non-member request not found")
	ErrDuplicateRequest  = errors.New("request with this phone/email already exists")
	ErrAlreadyMember     = errors.New("already exists as a member")
	ErrDuplicatePayment  = errors.New("payment already applied")
	ErrNoFieldsToUpdate  = errors.New("no fields provided to update")
	ErrUnsupportedSearch = errors.New("unsupported search field")
)

// ListFilter narrows member listings. Nil pointer fields are not applied.
type ListFilter struct {
	MemberTrue         *bool
	AmountSubscription *bool
	NoSubscription     bool
	NoRegistration     bool
}

// LedgerUpdate describes the single atomic increment-and-set applied to a
// member record after a verified subscription payment.
type LedgerUpdate struct {
	MemberID    string
	PaymentID   string
	OrderID     string
	AmountMinor int64
	Timestamp   string
}

// PaymentTotals is the aggregate over all member ledgers.
type PaymentTotals struct {
	TotalRegistration float64 `json:"total_registration"`
	TotalSubscription float64 `json:"total_subscription"`
}

// Repository is the store-agnostic contract over the member collection. Both
// the SQL and the document-store implementations must provide
// ApplySubscriptionPayment as one atomic store operation: the ledger update is
// never expressed as read-modify-write in the application layer.
type Repository interface {
	Insert(ctx context.Context, m *memberdm.Member) error
	FindByExternalID(ctx context.Context, externalID string) (*memberdm.Member, error)
	FindActiveByPhone(ctx context.Context, phone string) (*memberdm.Member, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
	ExistsByExternalIDOrEmail(ctx context.Context, externalID, email string) (bool, error)
	ExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error)
	UpdateFields(ctx context.Context, externalID string, fields map[string]interface{}) error
	List(ctx context.Context, filter ListFilter) ([]memberdm.Member, error)
	Search(ctx context.Context, fields map[string]interface{}) ([]memberdm.Member, error)
	TotalPaid(ctx context.Context) (count int64, total float64, err error)
	AggregatePaymentTotals(ctx context.Context) (PaymentTotals, error)

	// ApplySubscriptionPayment records the gateway payment id (rejecting
	// duplicates) and applies the increment-and-set to the matched member in
	// one atomic operation. Returns ErrMemberNotFound when no record matches
	// and ErrDuplicatePayment when the payment id was already applied; in
	// both cases nothing is modified.
	ApplySubscriptionPayment(ctx context.Context, update LedgerUpdate) error

	InsertNonMember(ctx context.Context, nm *memberdm.NonMember) error
	NonMemberExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error)
	FindNonMemberByRequestID(ctx context.Context, requestID string) (*memberdm.NonMember, error)
	DeleteNonMemberByRequestID(ctx context.Context, requestID string) error
	ListNonMembers(ctx context.Context) ([]memberdm.NonMember, error)
}
