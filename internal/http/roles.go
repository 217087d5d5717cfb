package httpapi

import (
	"encoding/json"
	"net/http"

	"kna-archive-backend-go/internal/optional"
	"kna-archive-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type CreateRoleRequest struct {
	ActivityID    string  `json:"activityId"`
	MemberID      string  `json:"memberId"`
	RoleName      *string `json:"roleName"`
	CharacterName *string `json:"characterName"`
	RoleType      *string `json:"roleType"`
	Notes         *string `json:"notes"`
}

type UpdateRoleRequest struct {
	RoleName      *string `json:"roleName"`
	CharacterName *string `json:"characterName"`
	RoleType      *string `json:"roleType"`
	Notes         *string `json:"notes"`
}

func (s *Server) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	if req.ActivityID == "" || req.MemberID == "" {
		WriteError(w, http.StatusBadRequest, "Activiteit en lid zijn verplicht.")
		return
	}
	role, err := services.CreateRole(s.DB, services.CreateRoleParams{
		ActivityID:    req.ActivityID,
		MemberID:      req.MemberID,
		RoleName:      req.RoleName,
		CharacterName: req.CharacterName,
		RoleType:      req.RoleType,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, role)
}

func (s *Server) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := services.GetRole(s.DB, parseInt(chi.URLParam(r, "roleId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if role == nil {
		WriteError(w, http.StatusNotFound, "Rol niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, role)
}

func (s *Server) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	patch := services.RolePatch{}
	if req.RoleName != nil {
		patch.RoleName = optional.Some(req.RoleName)
	}
	if req.CharacterName != nil {
		patch.CharacterName = optional.Some(req.CharacterName)
	}
	if req.RoleType != nil {
		patch.RoleType = optional.Some(req.RoleType)
	}
	if req.Notes != nil {
		patch.Notes = optional.Some(req.Notes)
	}
	role, err := services.UpdateRole(s.DB, parseInt(chi.URLParam(r, "roleId"), 0), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if role == nil {
		WriteError(w, http.StatusNotFound, "Rol niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, role)
}

func (s *Server) DeleteRole(w http.ResponseWriter, r *http.Request) {
	deleted, err := services.DeleteRole(s.DB, parseInt(chi.URLParam(r, "roleId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Rol niet gevonden.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
