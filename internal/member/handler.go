package member

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/amala-code/new-admin-backend/internal"
	memberdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/member"
	"github.com/amala-code/new-admin-backend/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
	}
}

// RegisterMember handles POST /register_member
func (h *Handler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req RegisterMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	m, err := h.Service.RegisterMember(r.Context(), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Member registered successfully",
		"member_id": m.ExternalID,
	})
}

// RegisterNewUserRequest handles POST /register_new_user_request
func (h *Handler) RegisterNewUserRequest(w http.ResponseWriter, r *http.Request) {
	var req RegisterMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	m, err := h.Service.RegisterNewUserRequest(r.Context(), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Member registered successfully",
		"member_id": m.ExternalID,
	})
}

// LookupByPhone handles POST /member/phone
func (h *Handler) LookupByPhone(w http.ResponseWriter, r *http.Request) {
	var req PhoneLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.LookupByPhone(r.Context(), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// GetMember handles GET /member/{id}
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.Service.GetByExternalID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, m)
}

// UpdateMember handles PUT /member/update/{id}
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	updated, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Member updated successfully",
		"updated_fields": updated,
	})
}

// DeleteMember handles DELETE /member/delete/{id}
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Member with id '%s' deleted successfully.", id),
	})
}

// ListMembers handles GET /all/members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.List(r.Context(), ListFilter{})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

// FilterMembers handles GET /members/filter
func (h *Handler) FilterMembers(w http.ResponseWriter, r *http.Request) {
	var filter ListFilter

	if raw := r.URL.Query().Get("member_true"); raw != "" {
		v := raw == "true"
		filter.MemberTrue = &v
	}
	if raw := r.URL.Query().Get("amount_subscription"); raw != "" {
		v := raw == "true"
		filter.AmountSubscription = &v
	}

	members, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"filtered_members": members})
}

// ListNonMembers handles GET /non_members (members with member_true=false)
func (h *Handler) ListNonMembers(w http.ResponseWriter, r *http.Request) {
	memberTrue := false
	members, err := h.Service.List(r.Context(), ListFilter{MemberTrue: &memberTrue})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

// SearchMembers handles GET /members/search
func (h *Handler) SearchMembers(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	members, err := h.Service.Search(r.Context(), params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"matched_members": members})
}

// TotalPaid handles GET /members/total-paid
func (h *Handler) TotalPaid(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.TotalPaid(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// NoSubscription handles GET /members/no-subscription
func (h *Handler) NoSubscription(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.List(r.Context(), ListFilter{NoSubscription: true})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.writeMemberList(w, members)
}

// NoMembership handles GET /members/no-membership
func (h *Handler) NoMembership(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.List(r.Context(), ListFilter{NoRegistration: true})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.writeMemberList(w, members)
}

// PaymentTotals handles GET /members/payment-totals
func (h *Handler) PaymentTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Service.PaymentTotals(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, totals)
}

// RegisterNonMemberRequest handles POST /register_non_member_request
func (h *Handler) RegisterNonMemberRequest(w http.ResponseWriter, r *http.Request) {
	var req RegisterNonMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	nm, err := h.Service.RegisterNonMemberRequest(r.Context(), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Non-member request submitted successfully",
		"request_id": nm.RequestID,
	})
}

// ApproveNonMember handles POST /approve_non_member/{request_id}
func (h *Handler) ApproveNonMember(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "request_id")

	m, err := h.Service.ApproveNonMember(r.Context(), requestID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Non-member approved and added as member",
		"member_id": m.ExternalID,
	})
}

// ListNonMemberRequests handles GET /non_member_requests
func (h *Handler) ListNonMemberRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.ListNonMemberRequests(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"members": requests})
}

func (h *Handler) writeMemberList(w http.ResponseWriter, members []memberdm.Member) {
	if members == nil {
		members = []memberdm.Member{}
	}
	h.WriteJSON(w, http.StatusOK, members)
}
