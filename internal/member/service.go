package member

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	errors "github.com/amala-code/new-admin-backend/internal"
	memberdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/member"
	"github.com/amala-code/new-admin-backend/internal/core/events"
)

// searchableFields whitelists the query parameters accepted by the member
// search endpoint and records how the raw string value is coerced.
var searchableFields = map[string]string{
	"id":                       "string",
	"name":                     "string",
	"address":                  "string",
	"email":                    "string",
	"phone":                    "string",
	"year_of_joining":          "int",
	"member_true":              "bool",
	"amount_subscription":      "bool",
	"amount_paid_total":        "float",
	"amount_paid_registration": "float",
	"amount_paid_subscription": "float",
}

type Service struct {
	repo     Repository
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// RegisterMember registers a member with a caller-supplied external id.
func (s *Service) RegisterMember(ctx context.Context, req *RegisterMemberRequest) (*memberdm.Member, error) {
	if err := req.Validate(true); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByExternalIDOrEmail(ctx, req.ID, req.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check for existing member", err)
	}
	if exists {
		return nil, errors.NewValidationError("Member with this ID or email already exists.", errors.ErrCodeDuplicateMember)
	}

	m := s.toModel(req)
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, errors.NewInternalError("failed to register member", err)
	}

	s.logger.Info("member registered", "member_id", m.ExternalID, "email", m.Email)
	s.eventBus.Publish(ctx, events.NewMemberRegisteredEvent(m.ExternalID, m.Email))
	return m, nil
}

// RegisterNewUserRequest registers a member with a store-generated external
// id. The id is a UUID allocated at insert time; registration never keeps
// counter state in process memory.
func (s *Service) RegisterNewUserRequest(ctx context.Context, req *RegisterMemberRequest) (*memberdm.Member, error) {
	if err := req.Validate(false); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByPhoneOrEmail(ctx, req.Phone, req.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check for existing member", err)
	}
	if exists {
		return nil, errors.NewValidationError("Member with this phone or email already exists.", errors.ErrCodeDuplicateMember)
	}

	req.ID = uuid.NewString()
	m := s.toModel(req)
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, errors.NewInternalError("failed to register member", err)
	}

	s.logger.Info("new user request registered", "member_id", m.ExternalID, "email", m.Email)
	s.eventBus.Publish(ctx, events.NewMemberRegisteredEvent(m.ExternalID, m.Email))
	return m, nil
}

func (s *Service) toModel(req *RegisterMemberRequest) *memberdm.Member {
	year := req.YearOfJoining
	if year == 0 {
		year = time.Now().Year()
	}
	return &memberdm.Member{
		ExternalID:             req.ID,
		Name:                   req.Name,
		Address:                req.Address,
		Email:                  req.Email,
		Phone:                  req.Phone,
		YearOfJoining:          year,
		MemberTrue:             req.MemberTrue,
		AmountPaidTotal:        req.AmountPaidTotal,
		AmountPaidRegistration: req.AmountPaidRegistration,
		AmountPaidSubscription: req.AmountPaidSubscription,
		AmountSubscription:     req.AmountSubscription,
		DateOfSubscription:     req.DateOfSubscription,
		TransactionID:          req.TransactionID,
	}
}

func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*memberdm.Member, error) {
	m, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		if err == ErrMemberNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("Member with id '%s' not found.", externalID), errors.ErrCodeMemberNotFound)
		}
		return nil, errors.NewInternalError("failed to fetch member", err)
	}
	return m, nil
}

func (s *Service) LookupByPhone(ctx context.Context, req *PhoneLookupRequest) (*PhoneLookupResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.FindActiveByPhone(ctx, req.Phone)
	if err != nil {
		if err == ErrMemberNotFound {
			return nil, errors.NewNotFoundError("Member not found with this phone number.", errors.ErrCodeMemberNotFound)
		}
		return nil, errors.NewInternalError("failed to look up member", err)
	}

	return &PhoneLookupResponse{
		MemberID: strconv.FormatInt(m.ID, 10),
		ID:       m.ExternalID,
		Name:     m.Name,
	}, nil
}

func (s *Service) Update(ctx context.Context, externalID string, req *UpdateMemberRequest) ([]string, error) {
	fields := req.Fields()
	if len(fields) == 0 {
		return nil, errors.NewValidationError("No fields provided to update.", errors.ErrCodeNoFieldsToUpdate)
	}

	if err := s.repo.UpdateFields(ctx, externalID, fields); err != nil {
		if err == ErrMemberNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("Member with id '%s' not found.", externalID), errors.ErrCodeMemberNotFound)
		}
		return nil, errors.NewInternalError("failed to update member", err)
	}

	updated := make([]string, 0, len(fields))
	for name := range fields {
		updated = append(updated, name)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, externalID string) error {
	if err := s.repo.DeleteByExternalID(ctx, externalID); err != nil {
		if err == ErrMemberNotFound {
			return errors.NewNotFoundError(fmt.Sprintf("Member with id '%s' not found.", externalID), errors.ErrCodeMemberNotFound)
		}
		return errors.NewInternalError("failed to delete member", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]memberdm.Member, error) {
	members, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError("failed to list members", err)
	}
	return members, nil
}

// Search coerces raw query-string values to typed filters over a whitelist of
// member fields, then queries the store with exact matches.
func (s *Service) Search(ctx context.Context, params map[string]string) ([]memberdm.Member, error) {
	if len(params) == 0 {
		return nil, errors.NewValidationError("No search parameters provided.", errors.ErrCodeValidationFailed)
	}

	fields := make(map[string]interface{}, len(params))
	for key, raw := range params {
		kind, ok := searchableFields[key]
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("unsupported search field %q", key), errors.ErrCodeValidationFailed)
		}
		switch kind {
		case "bool":
			fields[key] = raw == "true"
		case "int":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, errors.NewValidationFieldError(key, fmt.Sprintf("%s must be an integer", key), errors.ErrCodeValidationFailed)
			}
			fields[key] = n
		case "float":
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.NewValidationFieldError(key, fmt.Sprintf("%s must be a number", key), errors.ErrCodeValidationFailed)
			}
			fields[key] = f
		default:
			fields[key] = raw
		}
	}

	members, err := s.repo.Search(ctx, fields)
	if err != nil {
		return nil, errors.NewInternalError("failed to search members", err)
	}
	return members, nil
}

func (s *Service) TotalPaid(ctx context.Context) (*TotalPaidResponse, error) {
	count, total, err := s.repo.TotalPaid(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to aggregate total paid", err)
	}
	return &TotalPaidResponse{TotalMembers: count, TotalAmountPaid: total}, nil
}

func (s *Service) PaymentTotals(ctx context.Context) (*PaymentTotals, error) {
	totals, err := s.repo.AggregatePaymentTotals(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to aggregate payment totals", err)
	}
	return &totals, nil
}

// RegisterNonMemberRequest files a membership request from a non-member.
func (s *Service) RegisterNonMemberRequest(ctx context.Context, req *RegisterNonMemberRequest) (*memberdm.NonMember, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.NonMemberExistsByPhoneOrEmail(ctx, req.Phone, req.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check for existing request", err)
	}
	if exists {
		return nil, errors.NewValidationError("Request with this phone/email already exists.", errors.ErrCodeDuplicateRequest)
	}

	nm := &memberdm.NonMember{
		RequestID: uuid.NewString(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Note:      req.Note,
	}
	if err := s.repo.InsertNonMember(ctx, nm); err != nil {
		return nil, errors.NewInternalError("failed to store request", err)
	}

	s.logger.Info("non-member request submitted", "request_id", nm.RequestID, "email", nm.Email)
	return nm, nil
}

// ApproveNonMember promotes a pending request into the members collection and
// removes the request.
func (s *Service) ApproveNonMember(ctx context.Context, requestID string) (*memberdm.Member, error) {
	nm, err := s.repo.FindNonMemberByRequestID(ctx, requestID)
	if err != nil {
		if err == ErrRequestNotFound {
			return nil, errors.NewNotFoundError("Non-member request not found.", errors.ErrCodeRequestNotFound)
		}
		return nil, errors.NewInternalError("failed to fetch request", err)
	}

	exists, err := s.repo.ExistsByPhoneOrEmail(ctx, nm.Phone, nm.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check for existing member", err)
	}
	if exists {
		return nil, errors.NewValidationError("Already exists as a member.", errors.ErrCodeAlreadyMember)
	}

	m := &memberdm.Member{
		ExternalID:    uuid.NewString(),
		Name:          nm.Name,
		Phone:         nm.Phone,
		Email:         nm.Email,
		YearOfJoining: time.Now().Year(),
		MemberTrue:    true,
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, errors.NewInternalError("failed to promote request", err)
	}

	if err := s.repo.DeleteNonMemberByRequestID(ctx, requestID); err != nil {
		s.logger.Error("approved request could not be removed", "request_id", requestID, "error", err)
	}

	s.logger.Info("non-member approved", "request_id", requestID, "member_id", m.ExternalID)
	return m, nil
}

func (s *Service) ListNonMemberRequests(ctx context.Context) ([]memberdm.NonMember, error) {
	requests, err := s.repo.ListNonMembers(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list requests", err)
	}
	return requests, nil
}
