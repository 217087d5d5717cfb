package httpapi

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"kna-archive-backend-go/internal/optional"
	"kna-archive-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes caps multipart uploads at 64 MB.
const maxUploadBytes = 64 << 20

func (s *Server) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige upload.")
		return
	}
	activityID := r.FormValue("activityId")
	if activityID == "" {
		WriteError(w, http.StatusBadRequest, "Activiteit is verplicht.")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Bestand ontbreekt.")
		return
	}
	defer file.Close()

	item, err := services.SaveUpload(s.DB, s.Config.UploadPath, activityID, header.Filename, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (s *Server) GetMediaItem(w http.ResponseWriter, r *http.Request) {
	item, err := services.GetMediaItem(s.DB, parseInt(chi.URLParam(r, "mediaId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if item == nil {
		WriteError(w, http.StatusNotFound, "Media-item niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

type UpdateMediaItemRequest struct {
	Filename      *string `json:"filename"`
	MediaType     *string `json:"mediaType"`
	FileExtension *string `json:"fileExtension"`
	CaptureDate   *string `json:"captureDate"`
	Caption       *string `json:"caption"`
	Credit        *string `json:"credit"`
	DisplayOrder  *int    `json:"displayOrder"`
}

func (s *Server) UpdateMediaItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateMediaItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	patch := services.MediaItemPatch{}
	if req.Filename != nil {
		patch.Filename = optional.Some(*req.Filename)
	}
	if req.MediaType != nil {
		patch.MediaType = optional.Some(*req.MediaType)
	}
	if req.FileExtension != nil {
		patch.FileExtension = optional.Some(req.FileExtension)
	}
	if req.CaptureDate != nil {
		captureDate, err := parseDate(req.CaptureDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Ongeldige datum.")
			return
		}
		patch.CaptureDate = optional.Some(captureDate)
	}
	if req.Caption != nil {
		patch.Caption = optional.Some(req.Caption)
	}
	if req.Credit != nil {
		patch.Credit = optional.Some(req.Credit)
	}
	if req.DisplayOrder != nil {
		patch.DisplayOrder = optional.Some(*req.DisplayOrder)
	}
	item, err := services.UpdateMediaItem(s.DB, parseInt(chi.URLParam(r, "mediaId"), 0), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if item == nil {
		WriteError(w, http.StatusNotFound, "Media-item niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (s *Server) DeleteMediaItem(w http.ResponseWriter, r *http.Request) {
	deleted, err := services.DeleteMediaItem(s.DB, parseInt(chi.URLParam(r, "mediaId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Media-item niet gevonden.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) FinalizeMediaItem(w http.ResponseWriter, r *http.Request) {
	var req FinalizeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
			return
		}
	}
	item, err := services.GetMediaItem(s.DB, parseInt(chi.URLParam(r, "mediaId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if item == nil {
		WriteError(w, http.StatusNotFound, "Media-item niet gevonden.")
		return
	}
	moved, err := services.FinalizeMediaItem(s.DB, s.Config.UploadPath, s.Config.ResourcesPath, item, req.Overwrite)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

func (s *Server) SearchMedia(w http.ResponseWriter, r *http.Request) {
	items, err := services.SearchMedia(s.DB, r.URL.Query().Get("q"), parseInt(r.URL.Query().Get("limit"), 50))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) ListMediaTypes(w http.ResponseWriter, r *http.Request) {
	types, err := services.ListMediaTypes(s.DB)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, types)
}

// MediaFile serves a finalized file from the resources root. The wildcard is
// the storage path recorded on the media item.
func (s *Server) MediaFile(w http.ResponseWriter, r *http.Request) {
	s.serveResource(w, r, chi.URLParam(r, "*"), false)
}

// MediaThumbnail serves the thumbnail next to a finalized file, falling back
// to the full file when no thumbnail was generated.
func (s *Server) MediaThumbnail(w http.ResponseWriter, r *http.Request) {
	s.serveResource(w, r, chi.URLParam(r, "*"), true)
}

func (s *Server) serveResource(w http.ResponseWriter, r *http.Request, relative string, thumbnail bool) {
	cleaned := filepath.Clean(filepath.FromSlash(relative))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		WriteError(w, http.StatusBadRequest, "Ongeldig pad.")
		return
	}
	fullPath := filepath.Join(s.Config.ResourcesPath, cleaned)
	if thumbnail {
		thumbPath := filepath.Join(filepath.Dir(fullPath), "thumbnails", filepath.Base(fullPath))
		if _, err := os.Stat(thumbPath); err == nil {
			http.ServeFile(w, r, thumbPath)
			return
		}
	}
	if _, err := os.Stat(fullPath); err != nil {
		WriteError(w, http.StatusNotFound, "Bestand niet gevonden.")
		return
	}
	http.ServeFile(w, r, fullPath)
}

type CreateAppearanceRequest struct {
	MemberID     string  `json:"memberId"`
	RoleID       *int    `json:"roleId"`
	Context      *string `json:"context"`
	DisplayOrder int     `json:"displayOrder"`
	Notes        *string `json:"notes"`
}

func (s *Server) CreateAppearance(w http.ResponseWriter, r *http.Request) {
	var req CreateAppearanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	if req.MemberID == "" {
		WriteError(w, http.StatusBadRequest, "Lid is verplicht.")
		return
	}
	appearance, err := services.CreateMediaAppearance(s.DB, services.CreateMediaAppearanceParams{
		MediaID:      parseInt(chi.URLParam(r, "mediaId"), 0),
		MemberID:     req.MemberID,
		RoleID:       req.RoleID,
		Context:      req.Context,
		DisplayOrder: req.DisplayOrder,
		Notes:        req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, appearance)
}

func (s *Server) ListAppearances(w http.ResponseWriter, r *http.Request) {
	appearances, err := services.ListAppearancesForMedia(s.DB, parseInt(chi.URLParam(r, "mediaId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, appearances)
}

func (s *Server) GetAppearance(w http.ResponseWriter, r *http.Request) {
	appearance, err := services.GetMediaAppearance(s.DB, parseInt(chi.URLParam(r, "appearanceId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if appearance == nil {
		WriteError(w, http.StatusNotFound, "Koppeling niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, appearance)
}

// UpdateAppearanceRequest supports clearing the role link with roleId 0.
type UpdateAppearanceRequest struct {
	RoleID       *int    `json:"roleId"`
	Context      *string `json:"context"`
	DisplayOrder *int    `json:"displayOrder"`
	Notes        *string `json:"notes"`
}

func (s *Server) UpdateAppearance(w http.ResponseWriter, r *http.Request) {
	var req UpdateAppearanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	patch := services.MediaAppearancePatch{}
	if req.RoleID != nil {
		if *req.RoleID == 0 {
			patch.RoleID = optional.Some[*int](nil)
		} else {
			patch.RoleID = optional.Some(req.RoleID)
		}
	}
	if req.Context != nil {
		patch.Context = optional.Some(req.Context)
	}
	if req.DisplayOrder != nil {
		patch.DisplayOrder = optional.Some(*req.DisplayOrder)
	}
	if req.Notes != nil {
		patch.Notes = optional.Some(req.Notes)
	}
	appearance, err := services.UpdateMediaAppearance(s.DB, parseInt(chi.URLParam(r, "appearanceId"), 0), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if appearance == nil {
		WriteError(w, http.StatusNotFound, "Koppeling niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, appearance)
}

func (s *Server) DeleteAppearance(w http.ResponseWriter, r *http.Request) {
	deleted, err := services.DeleteMediaAppearance(s.DB, parseInt(chi.URLParam(r, "appearanceId"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Koppeling niet gevonden.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
