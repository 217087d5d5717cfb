package httpapi

import (
	"encoding/json"
	"net/http"

	"kna-archive-backend-go/internal/optional"
	"kna-archive-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type CreateMentionRequest struct {
	MentionDate *string `json:"mentionDate"`
	Source      string  `json:"source"`
	Title       string  `json:"title"`
	URL         *string `json:"url"`
	MediaType   *string `json:"mediaType"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

type UpdateMentionRequest struct {
	MentionDate *string `json:"mentionDate"`
	Source      *string `json:"source"`
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	MediaType   *string `json:"mediaType"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

func (s *Server) ListMentions(w http.ResponseWriter, r *http.Request) {
	opts := services.ListMentionsOptions{
		Source:    r.URL.Query().Get("source"),
		MediaType: r.URL.Query().Get("type"),
		Limit:     parseInt(r.URL.Query().Get("limit"), 50),
		Offset:    parseInt(r.URL.Query().Get("offset"), 0),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := parseDate(&raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Ongeldige datum.")
			return
		}
		opts.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := parseDate(&raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Ongeldige datum.")
			return
		}
		opts.To = to
	}
	mentions, err := services.ListMentions(s.DB, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, mentions)
}

func (s *Server) CreateMention(w http.ResponseWriter, r *http.Request) {
	var req CreateMentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	mentionDate, err := parseDate(req.MentionDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige datum.")
		return
	}
	mention, err := services.CreateMention(s.DB, services.CreateMentionParams{
		MentionDate: mentionDate,
		Source:      req.Source,
		Title:       req.Title,
		URL:         req.URL,
		MediaType:   req.MediaType,
		Description: req.Description,
		Notes:       req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, mention)
}

func (s *Server) GetMention(w http.ResponseWriter, r *http.Request) {
	mention, err := services.GetMention(s.DB, parseInt(chi.URLParam(r, "mentionId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if mention == nil {
		WriteError(w, http.StatusNotFound, "Vermelding niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, mention)
}

func (s *Server) UpdateMention(w http.ResponseWriter, r *http.Request) {
	var req UpdateMentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	patch := services.MentionPatch{}
	if req.MentionDate != nil {
		mentionDate, err := parseDate(req.MentionDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Ongeldige datum.")
			return
		}
		patch.MentionDate = optional.Some(mentionDate)
	}
	if req.Source != nil {
		patch.Source = optional.Some(*req.Source)
	}
	if req.Title != nil {
		patch.Title = optional.Some(*req.Title)
	}
	if req.URL != nil {
		patch.URL = optional.Some(req.URL)
	}
	if req.MediaType != nil {
		patch.MediaType = optional.Some(req.MediaType)
	}
	if req.Description != nil {
		patch.Description = optional.Some(req.Description)
	}
	if req.Notes != nil {
		patch.Notes = optional.Some(req.Notes)
	}
	mention, err := services.UpdateMention(s.DB, parseInt(chi.URLParam(r, "mentionId"), 0), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if mention == nil {
		WriteError(w, http.StatusNotFound, "Vermelding niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, mention)
}

func (s *Server) DeleteMention(w http.ResponseWriter, r *http.Request) {
	deleted, err := services.DeleteMention(s.DB, parseInt(chi.URLParam(r, "mentionId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Vermelding niet gevonden.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) MentionLinks(w http.ResponseWriter, r *http.Request) {
	links, err := services.ListMentionLinks(s.DB, parseInt(chi.URLParam(r, "mentionId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, links)
}

type MentionLinkRequest struct {
	RoleContext *string `json:"roleContext"`
	Relevance   *string `json:"relevance"`
	PageNumber  *int    `json:"pageNumber"`
	Notes       *string `json:"notes"`
}

func decodeLinkRequest(r *http.Request) MentionLinkRequest {
	var req MentionLinkRequest
	if r.ContentLength > 0 {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	return req
}

func (s *Server) LinkMentionMember(w http.ResponseWriter, r *http.Request) {
	req := decodeLinkRequest(r)
	err := services.LinkMentionMember(s.DB, parseInt(chi.URLParam(r, "mentionId"), 0),
		chi.URLParam(r, "memberId"), req.RoleContext, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) UnlinkMentionMember(w http.ResponseWriter, r *http.Request) {
	removed, err := services.UnlinkMentionMember(s.DB, parseInt(chi.URLParam(r, "mentionId"), 0),
		chi.URLParam(r, "memberId"))
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

func (s *Server) LinkMentionActivity(w http.ResponseWriter, r *http.Request) {
	req := decodeLinkRequest(r)
	err := services.LinkMentionActivity(s.DB, parseInt(chi.URLParam(r, "mentionId"), 0),
		chi.URLParam(r, "activityId"), req.Relevance, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) UnlinkMentionActivity(w http.ResponseWriter, r *http.Request) {
	removed, err := services.UnlinkMentionActivity(s.DB, parseInt(chi.URLParam(r, "mentionId"), 0),
		chi.URLParam(r, "activityId"))
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

func (s *Server) LinkMentionMediaItem(w http.ResponseWriter, r *http.Request) {
	req := decodeLinkRequest(r)
	err := services.LinkMentionMediaItem(s.DB, parseInt(chi.URLParam(r, "mentionId"), 0),
		parseInt(chi.URLParam(r, "mediaId"), 0), req.PageNumber, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) UnlinkMentionMediaItem(w http.ResponseWriter, r *http.Request) {
	removed, err := services.UnlinkMentionMediaItem(s.DB, parseInt(chi.URLParam(r, "mentionId"), 0),
		parseInt(chi.URLParam(r, "mediaId"), 0))
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
