package services

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"kna-archive-backend-go/internal/models"
)

type SearchResult struct {
	Members    []models.Member    `json:"members"`
	Activities []models.Activity  `json:"activities"`
	Media      []models.MediaItem `json:"media"`
}

// SearchAll runs a substring search over visible members, activities and
// media captions in one call. Hidden members never surface here.
func SearchAll(db *sqlx.DB, term string, limit int) (*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrBadRequest("Zoekterm is verplicht.")
	}
	if limit < 1 {
		limit = 20
	}
	result := SearchResult{
		Members:    []models.Member{},
		Activities: []models.Activity{},
		Media:      []models.MediaItem{},
	}

	members, err := ListMembers(db, ListMembersOptions{VisibleOnly: true, Search: term, Limit: limit})
	if err != nil {
		return nil, err
	}
	result.Members = members

	activities, err := ListActivities(db, ListActivitiesOptions{Search: term, Limit: limit})
	if err != nil {
		return nil, err
	}
	result.Activities = activities

	media, err := SearchMedia(db, term, limit)
	if err != nil {
		return nil, err
	}
	result.Media = media

	return &result, nil
}
