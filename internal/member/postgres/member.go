package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	memberdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/member"
	"github.com/amala-code/new-admin-backend/internal/member"
)

// MemberRepository implements the member.Repository interface using GORM
type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) member.Repository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Insert(ctx context.Context, m *memberdm.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MemberRepository) FindByExternalID(ctx context.Context, externalID string) (*memberdm.Member, error) {
	var m memberdm.Member
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, member.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) FindActiveByPhone(ctx context.Context, phone string) (*memberdm.Member, error) {
	var m memberdm.Member
	err := r.db.WithContext(ctx).
		Where("phone = ? AND member_true = ?", phone, true).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, member.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	result := r.db.WithContext(ctx).Where("external_id = ?", externalID).Delete(&memberdm.Member{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) ExistsByExternalIDOrEmail(ctx context.Context, externalID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&memberdm.Member{}).
		Where("external_id = ? OR email = ?", externalID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *MemberRepository) ExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&memberdm.Member{}).
		Where("phone = ? OR email = ?", phone, email).
		Count(&count).Error
	return count > 0, err
}

func (r *MemberRepository) UpdateFields(ctx context.Context, externalID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&memberdm.Member{}).
		Where("external_id = ?", externalID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) List(ctx context.Context, filter member.ListFilter) ([]memberdm.Member, error) {
	query := r.db.WithContext(ctx).Model(&memberdm.Member{})

	if filter.MemberTrue != nil {
		query = query.Where("member_true = ?", *filter.MemberTrue)
	}
	if filter.AmountSubscription != nil {
		query = query.Where("amount_subscription = ?", *filter.AmountSubscription)
	}
	if filter.NoSubscription {
		query = query.Where("amount_paid_subscription = 0")
	}
	if filter.NoRegistration {
		query = query.Where("amount_paid_registration = 0")
	}

	var members []memberdm.Member
	err := query.Order("id ASC").Find(&members).Error
	return members, err
}

func (r *MemberRepository) Search(ctx context.Context, fields map[string]interface{}) ([]memberdm.Member, error) {
	query := r.db.WithContext(ctx).Model(&memberdm.Member{})
	for key, value := range fields {
		column := key
		if column == "id" {
			column = "external_id"
		}
		query = query.Where(column+" = ?", value)
	}

	var members []memberdm.Member
	err := query.Order("id ASC").Find(&members).Error
	return members, err
}

func (r *MemberRepository) TotalPaid(ctx context.Context) (int64, float64, error) {
	var result struct {
		Count int64
		Total float64
	}
	err := r.db.WithContext(ctx).Model(&memberdm.Member{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount_paid_total), 0) AS total").
		Scan(&result).Error
	return result.Count, result.Total, err
}

func (r *MemberRepository) AggregatePaymentTotals(ctx context.Context) (member.PaymentTotals, error) {
	var totals member.PaymentTotals
	err := r.db.WithContext(ctx).Model(&memberdm.Member{}).
		Select("COALESCE(SUM(amount_paid_registration), 0) AS total_registration, COALESCE(SUM(amount_paid_subscription), 0) AS total_subscription").
		Scan(&totals).Error
	return totals, err
}

// ApplySubscriptionPayment records the payment id and applies the ledger
// increment in one transaction. The increment itself is a single UPDATE with
// an in-database expression, so concurrent payments for the same member never
// lose an update.
func (r *MemberRepository) ApplySubscriptionPayment(ctx context.Context, update member.LedgerUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := memberdm.ProcessedPayment{
			PaymentID:   update.PaymentID,
			MemberID:    update.MemberID,
			OrderID:     update.OrderID,
			AmountMinor: update.AmountMinor,
		}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}},
			DoNothing: true,
		}).Create(&record)
		if insert.Error != nil {
			return insert.Error
		}
		if insert.RowsAffected == 0 {
			return member.ErrDuplicatePayment
		}

		amount := float64(update.AmountMinor) / 100
		result := tx.Model(&memberdm.Member{}).
			Where("external_id = ?", update.MemberID).
			Updates(map[string]interface{}{
				"amount_paid_total":        gorm.Expr("amount_paid_total + ?", amount),
				"amount_subscription":      true,
				"amount_paid_subscription": amount,
				"transaction_id":           update.PaymentID,
				"date_of_subscription":     update.Timestamp,
				"updated_at":               time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return member.ErrMemberNotFound
		}
		return nil
	})
}

func (r *MemberRepository) InsertNonMember(ctx context.Context, nm *memberdm.NonMember) error {
	return r.db.WithContext(ctx).Create(nm).Error
}

func (r *MemberRepository) NonMemberExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&memberdm.NonMember{}).
		Where("phone = ? OR email = ?", phone, email).
		Count(&count).Error
	return count > 0, err
}

func (r *MemberRepository) FindNonMemberByRequestID(ctx context.Context, requestID string) (*memberdm.NonMember, error) {
	var nm memberdm.NonMember
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&nm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, member.ErrRequestNotFound
		}
		return nil, err
	}
	return &nm, nil
}

func (r *MemberRepository) DeleteNonMemberByRequestID(ctx context.Context, requestID string) error {
	result := r.db.WithContext(ctx).Where("request_id = ?", requestID).Delete(&memberdm.NonMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return member.ErrRequestNotFound
	}
	return nil
}

func (r *MemberRepository) ListNonMembers(ctx context.Context) ([]memberdm.NonMember, error) {
	var requests []memberdm.NonMember
	err := r.db.WithContext(ctx).Order("id ASC").Find(&requests).Error
	return requests, err
}
