package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	memberdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/member"
	"github.com/amala-code/new-admin-backend/internal/member"
)

// MemberRepository implements member.Repository against a MongoDB database,
// matching the document layout of the original deployment. The ledger update
// uses the driver's single-document $inc + $set primitive.
type MemberRepository struct {
	members           *mongo.Collection
	nonMembers        *mongo.Collection
	processedPayments *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{
		members:           db.Collection("members"),
		nonMembers:        db.Collection("non_members"),
		processedPayments: db.Collection("processed_payments"),
	}
}

// EnsureIndexes creates the unique indexes the repository relies on. Called
// once at startup.
func (r *MemberRepository) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := r.members.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = r.processedPayments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "payment_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MemberRepository) Insert(ctx context.Context, m *memberdm.Member) error {
	_, err := r.members.InsertOne(ctx, m)
	return err
}

func (r *MemberRepository) FindByExternalID(ctx context.Context, externalID string) (*memberdm.Member, error) {
	var m memberdm.Member
	err := r.members.FindOne(ctx, bson.M{"id": externalID}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, member.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) FindActiveByPhone(ctx context.Context, phone string) (*memberdm.Member, error) {
	var m memberdm.Member
	err := r.members.FindOne(ctx, bson.M{"phone": phone, "member_true": true}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, member.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	result, err := r.members.DeleteOne(ctx, bson.M{"id": externalID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) ExistsByExternalIDOrEmail(ctx context.Context, externalID, email string) (bool, error) {
	count, err := r.members.CountDocuments(ctx, bson.M{
		"$or": bson.A{bson.M{"id": externalID}, bson.M{"email": email}},
	})
	return count > 0, err
}

func (r *MemberRepository) ExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error) {
	count, err := r.members.CountDocuments(ctx, bson.M{
		"$or": bson.A{bson.M{"phone": phone}, bson.M{"email": email}},
	})
	return count > 0, err
}

func (r *MemberRepository) UpdateFields(ctx context.Context, externalID string, fields map[string]interface{}) error {
	set := bson.M{}
	for key, value := range fields {
		set[key] = value
	}

	result, err := r.members.UpdateOne(ctx, bson.M{"id": externalID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) List(ctx context.Context, filter member.ListFilter) ([]memberdm.Member, error) {
	query := bson.M{}
	if filter.MemberTrue != nil {
		query["member_true"] = *filter.MemberTrue
	}
	if filter.AmountSubscription != nil {
		query["amount_subscription"] = *filter.AmountSubscription
	}
	if filter.NoSubscription {
		query["amount_paid_subscription"] = 0
	}
	if filter.NoRegistration {
		query["amount_paid_registration"] = 0
	}

	return r.findMembers(ctx, query)
}

func (r *MemberRepository) Search(ctx context.Context, fields map[string]interface{}) ([]memberdm.Member, error) {
	query := bson.M{}
	for key, value := range fields {
		query[key] = value
	}
	return r.findMembers(ctx, query)
}

func (r *MemberRepository) findMembers(ctx context.Context, query bson.M) ([]memberdm.Member, error) {
	cursor, err := r.members.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []memberdm.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *MemberRepository) TotalPaid(ctx context.Context) (int64, float64, error) {
	cursor, err := r.members.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"total": bson.M{"$sum": "$amount_paid_total"},
		}}},
	})
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Count int64   `bson:"count"`
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].Count, results[0].Total, nil
}

func (r *MemberRepository) AggregatePaymentTotals(ctx context.Context) (member.PaymentTotals, error) {
	cursor, err := r.members.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":                nil,
			"total_registration": bson.M{"$sum": "$amount_paid_registration"},
			"total_subscription": bson.M{"$sum": "$amount_paid_subscription"},
		}}},
	})
	if err != nil {
		return member.PaymentTotals{}, err
	}
	defer cursor.Close(ctx)

	var results []member.PaymentTotals
	if err := cursor.All(ctx, &results); err != nil {
		return member.PaymentTotals{}, err
	}
	if len(results) == 0 {
		return member.PaymentTotals{}, nil
	}
	return results[0], nil
}

// ApplySubscriptionPayment reserves the payment id first (the unique index on
// processed_payments rejects a second application), then applies the ledger
// change as one $inc + $set UpdateOne. If no member matches, the reservation
// is released so a corrected retry is not blocked.
func (r *MemberRepository) ApplySubscriptionPayment(ctx context.Context, update member.LedgerUpdate) error {
	record := memberdm.ProcessedPayment{
		PaymentID:   update.PaymentID,
		MemberID:    update.MemberID,
		OrderID:     update.OrderID,
		AmountMinor: update.AmountMinor,
	}
	if _, err := r.processedPayments.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return member.ErrDuplicatePayment
		}
		return err
	}

	amount := float64(update.AmountMinor) / 100
	result, err := r.members.UpdateOne(ctx,
		bson.M{"id": update.MemberID},
		bson.M{
			"$inc": bson.M{"amount_paid_total": amount},
			"$set": bson.M{
				"amount_subscription":      true,
				"amount_paid_subscription": amount,
				"transaction_id":           update.PaymentID,
				"date_of_subscription":     update.Timestamp,
			},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		_, _ = r.processedPayments.DeleteOne(ctx, bson.M{"payment_id": update.PaymentID})
		return member.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) InsertNonMember(ctx context.Context, nm *memberdm.NonMember) error {
	_, err := r.nonMembers.InsertOne(ctx, nm)
	return err
}

func (r *MemberRepository) NonMemberExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error) {
	count, err := r.nonMembers.CountDocuments(ctx, bson.M{
		"$or": bson.A{bson.M{"phone": phone}, bson.M{"email": email}},
	})
	return count > 0, err
}

func (r *MemberRepository) FindNonMemberByRequestID(ctx context.Context, requestID string) (*memberdm.NonMember, error) {
	var nm memberdm.NonMember
	err := r.nonMembers.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&nm)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, member.ErrRequestNotFound
		}
		return nil, err
	}
	return &nm, nil
}

func (r *MemberRepository) DeleteNonMemberByRequestID(ctx context.Context, requestID string) error {
	result, err := r.nonMembers.DeleteOne(ctx, bson.M{"request_id": requestID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return member.ErrRequestNotFound
	}
	return nil
}

func (r *MemberRepository) ListNonMembers(ctx context.Context) ([]memberdm.NonMember, error) {
	cursor, err := r.nonMembers.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []memberdm.NonMember
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
