package httpapi

import (
	"encoding/json"
	"net/http"

	"kna-archive-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type CreateLocationRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	VenueType   *string `json:"venueType"`
	Coordinates *string `json:"coordinates"`
}

func (s *Server) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := services.ListLocations(s.DB)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, locations)
}

func (s *Server) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Ongeldige aanvraag.")
		return
	}
	location, err := services.CreateLocation(s.DB, services.CreateLocationParams{
		ID:          req.ID,
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		VenueType:   req.VenueType,
		Coordinates: req.Coordinates,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, location)
}

func (s *Server) GetLocation(w http.ResponseWriter, r *http.Request) {
	location, err := services.GetLocation(s.DB, chi.URLParam(r, "locationId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if location == nil {
		WriteError(w, http.StatusNotFound, "Locatie niet gevonden.")
		return
	}
	WriteJSON(w, http.StatusOK, location)
}

func (s *Server) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	deleted, err := services.DeleteLocation(s.DB, chi.URLParam(r, "locationId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Locatie niet gevonden.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
