package member_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/amala-code/new-admin-backend/internal"
	memberdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/member"
	"github.com/amala-code/new-admin-backend/internal/core/events"
	"github.com/amala-code/new-admin-backend/internal/member"
)

func TestMember(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Member Suite")
}

// Mock member repository
type mockMemberRepo struct {
	members    map[string]*memberdm.Member
	nonMembers map[string]*memberdm.NonMember
	insertErr  error
	searched   map[string]interface{}
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{
		members:    make(map[string]*memberdm.Member),
		nonMembers: make(map[string]*memberdm.NonMember),
	}
}

func (m *mockMemberRepo) Insert(ctx context.Context, rec *memberdm.Member) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	rec.ID = int64(len(m.members) + 1)
	m.members[rec.ExternalID] = rec
	return nil
}

func (m *mockMemberRepo) FindByExternalID(ctx context.Context, externalID string) (*memberdm.Member, error) {
	rec, ok := m.members[externalID]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	return rec, nil
}

func (m *mockMemberRepo) FindActiveByPhone(ctx context.Context, phone string) (*memberdm.Member, error) {
	for _, rec := range m.members {
		if rec.Phone == phone && rec.MemberTrue {
			return rec, nil
		}
	}
	return nil, member.ErrMemberNotFound
}

func (m *mockMemberRepo) DeleteByExternalID(ctx context.Context, externalID string) error {
	if _, ok := m.members[externalID]; !ok {
		return member.ErrMemberNotFound
	}
	delete(m.members, externalID)
	return nil
}

func (m *mockMemberRepo) ExistsByExternalIDOrEmail(ctx context.Context, externalID, email string) (bool, error) {
	for _, rec := range m.members {
		if rec.ExternalID == externalID || rec.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMemberRepo) ExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error) {
	for _, rec := range m.members {
		if rec.Phone == phone || rec.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMemberRepo) UpdateFields(ctx context.Context, externalID string, fields map[string]interface{}) error {
	if _, ok := m.members[externalID]; !ok {
		return member.ErrMemberNotFound
	}
	return nil
}

func (m *mockMemberRepo) List(ctx context.Context, filter member.ListFilter) ([]memberdm.Member, error) {
	var out []memberdm.Member
	for _, rec := range m.members {
		if filter.MemberTrue != nil && rec.MemberTrue != *filter.MemberTrue {
			continue
		}
		if filter.NoSubscription && rec.AmountPaidSubscription != 0 {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (m *mockMemberRepo) Search(ctx context.Context, fields map[string]interface{}) ([]memberdm.Member, error) {
	m.searched = fields
	return nil, nil
}

func (m *mockMemberRepo) TotalPaid(ctx context.Context) (int64, float64, error) {
	var total float64
	for _, rec := range m.members {
		total += rec.AmountPaidTotal
	}
	return int64(len(m.members)), total, nil
}

func (m *mockMemberRepo) AggregatePaymentTotals(ctx context.Context) (member.PaymentTotals, error) {
	var totals member.PaymentTotals
	for _, rec := range m.members {
		totals.TotalRegistration += rec.AmountPaidRegistration
		totals.TotalSubscription += rec.AmountPaidSubscription
	}
	return totals, nil
}

func (m *mockMemberRepo) ApplySubscriptionPayment(ctx context.Context, update member.LedgerUpdate) error {
	rec, ok := m.members[update.MemberID]
	if !ok {
		return member.ErrMemberNotFound
	}
	rec.AmountPaidTotal += float64(update.AmountMinor) / 100
	return nil
}

func (m *mockMemberRepo) InsertNonMember(ctx context.Context, nm *memberdm.NonMember) error {
	m.nonMembers[nm.RequestID] = nm
	return nil
}

func (m *mockMemberRepo) NonMemberExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error) {
	for _, nm := range m.nonMembers {
		if nm.Phone == phone || nm.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMemberRepo) FindNonMemberByRequestID(ctx context.Context, requestID string) (*memberdm.NonMember, error) {
	nm, ok := m.nonMembers[requestID]
	if !ok {
		return nil, member.ErrRequestNotFound
	}
	return nm, nil
}

func (m *mockMemberRepo) DeleteNonMemberByRequestID(ctx context.Context, requestID string) error {
	if _, ok := m.nonMembers[requestID]; !ok {
		return member.ErrRequestNotFound
	}
	delete(m.nonMembers, requestID)
	return nil
}

func (m *mockMemberRepo) ListNonMembers(ctx context.Context) ([]memberdm.NonMember, error) {
	var out []memberdm.NonMember
	for _, nm := range m.nonMembers {
		out = append(out, *nm)
	}
	return out, nil
}

var _ = Describe("MemberService", func() {
	var (
		svc  *member.Service
		repo *mockMemberRepo
		ctx  context.Context
	)

	BeforeEach(func() {
		repo = newMockMemberRepo()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = member.NewService(repo, events.NewEventBus(logger), logger)
		ctx = context.Background()
	})

	registerReq := func(id string) *member.RegisterMemberRequest {
		return &member.RegisterMemberRequest{
			ID:      id,
			Name:    "Member " + id,
			Address: "1 Temple Road",
			Email:   id + "@mail.com",
			Phone:   "90000" + id,
		}
	}

	Describe("RegisterMember", func() {
		It("stores the member under the supplied id", func() {
			m, err := svc.RegisterMember(ctx, registerReq("MEM001"))
			Expect(err).NotTo(HaveOccurred())
			Expect(m.ExternalID).To(Equal("MEM001"))
			Expect(repo.members).To(HaveKey("MEM001"))
		})

		It("rejects a duplicate id or email as a client error", func() {
			_, err := svc.RegisterMember(ctx, registerReq("MEM001"))
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.RegisterMember(ctx, registerReq("MEM001"))
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("RegisterNewUserRequest", func() {
		newUserReq := func(email, phone string) *member.RegisterMemberRequest {
			return &member.RegisterMemberRequest{
				Name:    "New User",
				Address: "1 Temple Road",
				Email:   email,
				Phone:   phone,
			}
		}

		It("generates an id instead of trusting the client", func() {
			m, err := svc.RegisterNewUserRequest(ctx, newUserReq("new@mail.com", "9000000001"))
			Expect(err).NotTo(HaveOccurred())
			Expect(m.ExternalID).NotTo(BeEmpty())
		})

		It("generates distinct ids across registrations", func() {
			first, err := svc.RegisterNewUserRequest(ctx, newUserReq("a@mail.com", "9000000001"))
			Expect(err).NotTo(HaveOccurred())

			second, err := svc.RegisterNewUserRequest(ctx, newUserReq("b@mail.com", "9000000002"))
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ExternalID).NotTo(Equal(first.ExternalID))
		})

		It("rejects a duplicate phone or email", func() {
			_, err := svc.RegisterNewUserRequest(ctx, newUserReq("a@mail.com", "9000000001"))
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.RegisterNewUserRequest(ctx, newUserReq("a@mail.com", "9000000002"))
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("Search", func() {
		It("coerces whitelisted fields to their types", func() {
			_, err := svc.Search(ctx, map[string]string{
				"year_of_joining": "2020",
				"member_true":     "true",
				"name":            "Member",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.searched).To(HaveKeyWithValue("year_of_joining", 2020))
			Expect(repo.searched).To(HaveKeyWithValue("member_true", true))
			Expect(repo.searched).To(HaveKeyWithValue("name", "Member"))
		})

		It("rejects a field outside the whitelist", func() {
			_, err := svc.Search(ctx, map[string]string{"password_hash": "x"})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("rejects an empty query", func() {
			_, err := svc.Search(ctx, map[string]string{})
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-numeric year", func() {
			_, err := svc.Search(ctx, map[string]string{"year_of_joining": "abc"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("reports which fields were updated", func() {
			_, err := svc.RegisterMember(ctx, registerReq("MEM001"))
			Expect(err).NotTo(HaveOccurred())

			addr := "12 New Street"
			updated, err := svc.Update(ctx, "MEM001", &member.UpdateMemberRequest{Address: &addr})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(ContainElement("address"))
		})

		It("rejects an empty update", func() {
			_, err := svc.Update(ctx, "MEM001", &member.UpdateMemberRequest{})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("reports a missing member as not found", func() {
			addr := "x"
			_, err := svc.Update(ctx, "NOPE", &member.UpdateMemberRequest{Address: &addr})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("Non-member approval", func() {
		It("promotes a pending request into a member and removes it", func() {
			nm, err := svc.RegisterNonMemberRequest(ctx, &member.RegisterNonMemberRequest{
				Name:  "Pending Person",
				Phone: "9111111111",
				Email: "pending@mail.com",
			})
			Expect(err).NotTo(HaveOccurred())

			m, err := svc.ApproveNonMember(ctx, nm.RequestID)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.MemberTrue).To(BeTrue())
			Expect(m.Name).To(Equal("Pending Person"))
			Expect(repo.nonMembers).NotTo(HaveKey(nm.RequestID))
		})

		It("rejects approval when already a member", func() {
			req := registerReq("MEM001")
			req.Phone = "9111111111"
			_, err := svc.RegisterMember(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			nm := &memberdm.NonMember{RequestID: "REQ001", Name: "P", Phone: "9111111111", Email: "p@mail.com"}
			repo.nonMembers["REQ001"] = nm

			_, err = svc.ApproveNonMember(ctx, "REQ001")
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("reports an unknown request as not found", func() {
			_, err := svc.ApproveNonMember(ctx, "NOPE")
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})

		It("rejects a duplicate pending request", func() {
			_, err := svc.RegisterNonMemberRequest(ctx, &member.RegisterNonMemberRequest{
				Name: "P", Phone: "9111111111", Email: "p@mail.com",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.RegisterNonMemberRequest(ctx, &member.RegisterNonMemberRequest{
				Name: "Q", Phone: "9111111111", Email: "q@mail.com",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Aggregates", func() {
		It("sums totals over the collection", func() {
			req := registerReq("MEM001")
			req.AmountPaidTotal = 700
			req.AmountPaidRegistration = 100
			req.AmountPaidSubscription = 600
			_, err := svc.RegisterMember(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			totals, err := svc.TotalPaid(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(totals.TotalMembers).To(Equal(int64(1)))
			Expect(totals.TotalAmountPaid).To(Equal(float64(700)))

			split, err := svc.PaymentTotals(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(split.TotalRegistration).To(Equal(float64(100)))
			Expect(split.TotalSubscription).To(Equal(float64(600)))
		})
	})
})
