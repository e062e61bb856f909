package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"geneailogy/tree-service/internal/service"
)

// MemberHandler serves member CRUD and relation linkage
type MemberHandler struct {
	memberService *service.MemberService
}

func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// CreateMember handles POST /api/members
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var input service.CreateMemberInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.memberService.CreateMember(r.Context(), input)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

// GetMember handles GET /api/members/{id}
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.memberService.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// AddRelation handles POST /api/members/{id}/relations
func (h *MemberHandler) AddRelation(w http.ResponseWriter, r *http.Request) {
	var input service.AddRelationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.memberService.AddRelation(r.Context(), chi.URLParam(r, "id"), input); err != nil {
		mapServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "linked"})
}

// ListTreeMembers handles GET /api/trees/{treeId}/members
func (h *MemberHandler) ListTreeMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberService.ListTreeMembers(r.Context(), chi.URLParam(r, "treeId"))
	if err != nil {
		mapServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

// DeleteMember handles DELETE /api/members/{id}
func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.memberService.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
