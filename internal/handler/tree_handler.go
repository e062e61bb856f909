package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"geneailogy/tree-service/internal/service"
)

// TreeHandler serves the generation layout, relationship lookups and the
// per-viewer navigation history
type TreeHandler struct {
	treeService         *service.TreeService
	relationshipService *service.RelationshipService
	navSessions         *service.NavigationSessions
}

func NewTreeHandler(
	treeService *service.TreeService,
	relationshipService *service.RelationshipService,
	navSessions *service.NavigationSessions,
) *TreeHandler {
	return &TreeHandler{
		treeService:         treeService,
		relationshipService: relationshipService,
		navSessions:         navSessions,
	}
}

// GetLayout handles GET /api/trees/{treeId}/layout?focus_id=...&viewer_id=...
func (h *TreeHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "treeId")
	viewer := viewerID(r)
	if viewer == "" {
		writeError(w, http.StatusBadRequest, "viewer_id is required")
		return
	}

	focusID := r.URL.Query().Get("focus_id")
	if focusID == "" {
		focusID = viewer
	}

	layout, err := h.treeService.GetGenerationLayout(r.Context(), treeID, focusID, viewer)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, layout)
}

// GetRelationship handles GET /api/relationship?tree_id=...&viewer_id=...&target_id=...
func (h *TreeHandler) GetRelationship(w http.ResponseWriter, r *http.Request) {
	treeID := r.URL.Query().Get("tree_id")
	viewer := viewerID(r)
	targetID := r.URL.Query().Get("target_id")
	if treeID == "" || viewer == "" || targetID == "" {
		writeError(w, http.StatusBadRequest, "tree_id, viewer_id and target_id are required")
		return
	}

	label, err := h.relationshipService.GetRelationship(r.Context(), treeID, viewer, targetID)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"relationship": string(label)})
}

type navigateRequest struct {
	MemberID string `json:"member_id"`
}

// Navigate handles POST /api/trees/{treeId}/navigate
func (h *TreeHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	if viewer == "" {
		writeError(w, http.StatusBadRequest, "viewer_id is required")
		return
	}

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required")
		return
	}

	history := h.navSessions.Get(viewer)
	history.NavigateTo(req.MemberID)

	h.respondWithFocus(w, r, history.Current(), viewer)
}

// GoBack handles POST /api/trees/{treeId}/back
func (h *TreeHandler) GoBack(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	if viewer == "" {
		writeError(w, http.StatusBadRequest, "viewer_id is required")
		return
	}

	history := h.navSessions.Get(viewer)
	h.respondWithFocus(w, r, history.GoBack(), viewer)
}

// GoToRoot handles POST /api/trees/{treeId}/root
func (h *TreeHandler) GoToRoot(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	if viewer == "" {
		writeError(w, http.StatusBadRequest, "viewer_id is required")
		return
	}

	history := h.navSessions.Get(viewer)
	h.respondWithFocus(w, r, history.GoToRoot(), viewer)
}

func (h *TreeHandler) respondWithFocus(w http.ResponseWriter, r *http.Request, focusID, viewer string) {
	treeID := chi.URLParam(r, "treeId")

	layout, err := h.treeService.GetGenerationLayout(r.Context(), treeID, focusID, viewer)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, layout)
}
