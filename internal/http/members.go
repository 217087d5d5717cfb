package httpapi

import (
	"encoding/json"
	"net/http"

	"kna-archive-backend-go/internal/models"
	"kna-archive-backend-go/internal/optional"
	"kna-archive-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type CreateMemberRequest struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	BirthDate   *string `json:"birthDate"`
	GdprVisible *bool   `json:"gdprVisible"`
	Notes       *string `json:"notes"`
}

type QuickCreateMemberRequest struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateMemberRequest carries a partial update: absent fields stay untouched,
// an empty string clears a clearable field.
type UpdateMemberRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	BirthDate   *string `json:"birthDate"`
	GdprVisible *bool   `json:"gdprVisible"`
	Notes       *string `json:"notes"`
}

type MemberListResponse struct {
	Items []models.Member `json:"items"`
}

type MemberDetailResponse struct {
	Member      models.Member               `json:"member"`
	QtyMedia    int                         `json:"qtyMedia"`
	Roles       []services.RoleWithActivity `json:"roles"`
	NameHistory []models.MemberNameHistory  `json:"nameHistory"`
	Periods     []models.MembershipPeriod   `json:"periods"`
	Media       []models.MediaItem          `json:"media"`
}

func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	opts := services.ListMembersOptions{
		VisibleOnly: r.URL.Query().Get("all") != "true",
		Search:      r.URL.Query().Get("q"),
		Limit:       parseInt(r.URL.Query().Get("limit"), 100),
		Offset:      parseInt(r.URL.Query().Get("offset"), 0),
	}
	items, err := services.ListMembers(s.DB, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, MemberListResponse{Items: items})
}

func (s *Server) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige geboortedatum.")
		return
	}
	visible := true
	if req.GdprVisible != nil {
		visible = *req.GdprVisible
	}
	member, err := services.CreateMember(s.DB, services.CreateMemberParams{
		ID:          req.ID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BirthDate:   birthDate,
		GdprVisible: visible,
		Notes:       req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, member)
}

func (s *Server) QuickCreateMember(w http.ResponseWriter, r *http.Request) {
	var req QuickCreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	member, err := services.QuickCreateMember(s.DB, req.FirstName, req.LastName, req.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, member)
}

func (s *Server) MemberDetail(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberId")

	if r.URL.Query().Get("public") == "true" {
		info, err := services.GetMemberInfo(s.DB, memberID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if info == nil {
			WriteError(w, http.StatusNotFound, "Lid niet gevonden.")
			return
		}
		WriteJSON(w, http.StatusOK, info)
		return
	}

	member, err := services.GetMember(s.DB, memberID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if member == nil {
		WriteError(w, http.StatusNotFound, "Lid niet gevonden.")
		return
	}
	roles, err := services.ListRolesForMember(s.DB, memberID, 0)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	history, err := services.ListNameHistory(s.DB, memberID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	periods, err := services.ListMembershipPeriods(s.DB, memberID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	media, err := services.ListMediaForMember(s.DB, memberID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, MemberDetailResponse{
		Member:      *member,
		QtyMedia:    len(media),
		Roles:       roles,
		NameHistory: history,
		Periods:     periods,
		Media:       media,
	})
}

func (s *Server) UpdateMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberId")
	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	patch := services.MemberPatch{}
	if req.FirstName != nil {
		patch.FirstName = optional.Some(*req.FirstName)
	}
	if req.LastName != nil {
		patch.LastName = optional.Some(*req.LastName)
	}
	if req.BirthDate != nil {
		birthDate, err := parseDate(req.BirthDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Ongeldige geboortedatum.")
			return
		}
		patch.BirthDate = optional.Some(birthDate)
	}
	if req.GdprVisible != nil {
		patch.GdprVisible = optional.Some(*req.GdprVisible)
	}
	if req.Notes != nil {
		patch.Notes = optional.Some(req.Notes)
	}
	member, err := services.UpdateMember(s.DB, memberID, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if member == nil {
		WriteError(w, http.StatusNotFound, "Lid niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, member)
}

func (s *Server) DeleteMember(w http.ResponseWriter, r *http.Request) {
	deleted, err := services.DeleteMember(s.DB, chi.URLParam(r, "memberId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Lid niet gevonden.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type AddNameHistoryRequest struct {
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	ValidFrom       *string `json:"validFrom"`
	ValidTo         *string `json:"validTo"`
	ChangeReason    *string `json:"changeReason"`
	Source          *string `json:"source"`
	DisplayPriority int     `json:"displayPriority"`
	Notes           *string `json:"notes"`
}

func (s *Server) AddNameHistory(w http.ResponseWriter, r *http.Request) {
	var req AddNameHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	validFrom, err := parseDate(req.ValidFrom)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige datum.")
		return
	}
	validTo, err := parseDate(req.ValidTo)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige datum.")
		return
	}
	entry, err := services.AddNameHistory(s.DB, services.AddNameHistoryParams{
		MemberID:        chi.URLParam(r, "memberId"),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ValidFrom:       validFrom,
		ValidTo:         validTo,
		ChangeReason:    req.ChangeReason,
		Source:          req.Source,
		DisplayPriority: req.DisplayPriority,
		Notes:           req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

func (s *Server) ListNameHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := services.ListNameHistory(s.DB, chi.URLParam(r, "memberId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

type AddMembershipPeriodRequest struct {
	JoinDate  *string `json:"joinDate"`
	LeaveDate *string `json:"leaveDate"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

func (s *Server) AddMembershipPeriod(w http.ResponseWriter, r *http.Request) {
	var req AddMembershipPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	joinDate, err := parseDate(req.JoinDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige datum.")
		return
	}
	leaveDate, err := parseDate(req.LeaveDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige datum.")
		return
	}
	period, err := services.AddMembershipPeriod(s.DB, services.AddMembershipPeriodParams{
		MemberID:  chi.URLParam(r, "memberId"),
		JoinDate:  joinDate,
		LeaveDate: leaveDate,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, period)
}

func (s *Server) ListMembershipPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := services.ListMembershipPeriods(s.DB, chi.URLParam(r, "memberId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, periods)
}

func (s *Server) MemberRoles(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 100)
	roles, err := services.ListRolesForMember(s.DB, chi.URLParam(r, "memberId"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, roles)
}

func (s *Server) MemberMedia(w http.ResponseWriter, r *http.Request) {
	items, err := services.ListMediaForMember(s.DB, chi.URLParam(r, "memberId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) MemberMentions(w http.ResponseWriter, r *http.Request) {
	mentions, err := services.ListMentionsForMember(s.DB, chi.URLParam(r, "memberId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, mentions)
}
