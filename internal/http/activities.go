package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"kna-archive-backend-go/internal/models"
	"kna-archive-backend-go/internal/optional"
	"kna-archive-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type CreateActivityRequest struct {
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Year        *int    `json:"year"`
	Author      *string `json:"author"`
	Director    *string `json:"director"`
	Folder      *string `json:"folder"`
	Description *string `json:"description"`
}

type UpdateActivityRequest struct {
	Title       *string `json:"title"`
	Type        *string `json:"type"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Year        *int    `json:"year"`
	Author      *string `json:"author"`
	Director    *string `json:"director"`
	Description *string `json:"description"`
}

type ActivityListResponse struct {
	Items []models.Activity `json:"items"`
}

func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	opts := services.ListActivitiesOptions{
		Type:   r.URL.Query().Get("type"),
		Search: r.URL.Query().Get("q"),
		Limit:  parseInt(r.URL.Query().Get("limit"), 50),
		Offset: parseInt(r.URL.Query().Get("offset"), 0),
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year := parseInt(raw, 0)
		if year == 0 {
			WriteError(w, http.StatusBadRequest, "Ongeldig jaar.")
			return
		}
		opts.Year = &year
	}
	items, err := services.ListActivities(s.DB, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ActivityListResponse{Items: items})
}

func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige startdatum.")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige einddatum.")
		return
	}
	activity, err := services.CreateActivity(s.DB, services.CreateActivityParams{
		Title:       req.Title,
		Type:        req.Type,
		StartDate:   startDate,
		EndDate:     endDate,
		Year:        req.Year,
		Author:      req.Author,
		Director:    req.Director,
		Folder:      req.Folder,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, activity)
}

func (s *Server) ActivityDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := services.GetActivityDetail(s.DB, chi.URLParam(r, "activityId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if detail == nil {
		WriteError(w, http.StatusNotFound, "Activiteit niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req UpdateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	patch := services.ActivityPatch{}
	if req.Title != nil {
		patch.Title = optional.Some(*req.Title)
	}
	if req.Type != nil {
		patch.Type = optional.Some(*req.Type)
	}
	if req.StartDate != nil {
		startDate, err := parseDate(req.StartDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Ongeldige startdatum.")
			return
		}
		patch.StartDate = optional.Some(startDate)
	}
	if req.EndDate != nil {
		endDate, err := parseDate(req.EndDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Ongeldige einddatum.")
			return
		}
		patch.EndDate = optional.Some(endDate)
	}
	if req.Year != nil {
		patch.Year = optional.Some(req.Year)
	}
	if req.Author != nil {
		patch.Author = optional.Some(req.Author)
	}
	if req.Director != nil {
		patch.Director = optional.Some(req.Director)
	}
	if req.Description != nil {
		patch.Description = optional.Some(req.Description)
	}
	activity, err := services.UpdateActivity(s.DB, chi.URLParam(r, "activityId"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if activity == nil {
		WriteError(w, http.StatusNotFound, "Activiteit niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, activity)
}

func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	deleted, err := services.DeleteActivity(s.DB, chi.URLParam(r, "activityId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Activiteit niet gevonden.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ParseRolesRequest struct {
	ProgramText string `json:"programText"`
	Delimiter   string `json:"delimiter"`
}

func (s *Server) ParseRoles(w http.ResponseWriter, r *http.Request) {
	var req ParseRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	delimiter := req.Delimiter
	if delimiter == "" {
		delimiter = s.Config.ProgramDelimiter
	}
	result, err := services.BulkCreateRolesFromText(s.DB, chi.URLParam(r, "activityId"), req.ProgramText, delimiter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

type FinalizeRequest struct {
	Overwrite bool `json:"overwrite"`
}

func (s *Server) FinalizeActivityMedia(w http.ResponseWriter, r *http.Request) {
	var req FinalizeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
			return
		}
	}
	summary, err := services.FinalizeActivityMedia(s.DB, s.Config.UploadPath, s.Config.ResourcesPath,
		chi.URLParam(r, "activityId"), req.Overwrite)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

type BulkAssignRequest struct {
	MediaIDs  []int    `json:"mediaIds"`
	MemberIDs []string `json:"memberIds"`
	RoleIDs   []int    `json:"roleIds"`
	Finalize  bool     `json:"finalize"`
	Overwrite bool     `json:"overwrite"`
}

type BulkAssignResponse struct {
	Appearances int                       `json:"appearances"`
	Errors      []string                  `json:"errors"`
	Finalized   *services.FinalizeSummary `json:"finalized,omitempty"`
}

// BulkAssignMedia links a batch of members to a batch of media items of one
// activity, optionally finalizing the staged files afterwards. Per-pair
// failures are collected; the batch continues.
func (s *Server) BulkAssignMedia(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "activityId")
	var req BulkAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	if len(req.MediaIDs) == 0 || len(req.MemberIDs) == 0 {
		WriteError(w, http.StatusBadRequest, "Media en leden zijn verplicht.")
		return
	}
	if len(req.RoleIDs) != 0 && len(req.RoleIDs) != len(req.MemberIDs) {
		WriteError(w, http.StatusBadRequest, "Aantal rollen komt niet overeen met aantal leden.")
		return
	}

	bulkContext := "bulk toegewezen"
	resp := BulkAssignResponse{Errors: []string{}}
	for _, mediaID := range req.MediaIDs {
		item, err := services.GetMediaItem(s.DB, mediaID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if item == nil || item.ActivityID != activityID {
			resp.Errors = append(resp.Errors, fmt.Sprintf("media %d: hoort niet bij deze activiteit", mediaID))
			continue
		}
		for i, memberID := range req.MemberIDs {
			var roleID *int
			if len(req.RoleIDs) != 0 && req.RoleIDs[i] > 0 {
				roleID = &req.RoleIDs[i]
			}
			_, err := services.CreateMediaAppearance(s.DB, services.CreateMediaAppearanceParams{
				MediaID:  mediaID,
				MemberID: memberID,
				RoleID:   roleID,
				Context:  &bulkContext,
			})
			if err != nil {
				resp.Errors = append(resp.Errors, fmt.Sprintf("media %d, lid %s: %v", mediaID, memberID, err))
				continue
			}
			resp.Appearances++
		}
	}
	if req.Finalize {
		summary, err := services.FinalizeActivityMedia(s.DB, s.Config.UploadPath, s.Config.ResourcesPath, activityID, req.Overwrite)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp.Finalized = &summary
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) ActivityRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := services.ListRolesForActivity(s.DB, chi.URLParam(r, "activityId"), r.URL.Query().Get("type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, roles)
}

func (s *Server) ActivityMedia(w http.ResponseWriter, r *http.Request) {
	items, err := services.ListMediaForActivity(s.DB, chi.URLParam(r, "activityId"),
		r.URL.Query().Get("type"),
		parseInt(r.URL.Query().Get("limit"), 50),
		parseInt(r.URL.Query().Get("offset"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) ActivityMentions(w http.ResponseWriter, r *http.Request) {
	mentions, err := services.ListMentionsForActivity(s.DB, chi.URLParam(r, "activityId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, mentions)
}

func (s *Server) ActivityLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := services.ListLocationsForActivity(s.DB, chi.URLParam(r, "activityId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, locations)
}

type LinkLocationRequest struct {
	LocationID string `json:"locationId"`
}

func (s *Server) LinkActivityLocation(w http.ResponseWriter, r *http.Request) {
	var req LinkLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LocationID == "" {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	if err := services.LinkActivityLocation(s.DB, chi.URLParam(r, "activityId"), req.LocationID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) UnlinkActivityLocation(w http.ResponseWriter, r *http.Request) {
	removed, err := services.UnlinkActivityLocation(s.DB, chi.URLParam(r, "activityId"), chi.URLParam(r, "locationId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !removed {
		WriteError(w, http.StatusNotFound, "Koppeling niet gevonden.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) Timeline(w http.ResponseWriter, r *http.Request) {
	years, err := services.Timeline(s.DB)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, years)
}
