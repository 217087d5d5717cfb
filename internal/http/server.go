package httpapi

import (
	"net/http"

	"kna-archive-backend-go/internal/config"
	"kna-archive-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	MetricsHub *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.MetricsHub) *Server {
	return &Server{
		DB:         db,
		Config:     cfg,
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/members", func(members chi.Router) {
			members.Get("/", s.ListMembers)
			members.Post("/", s.CreateMember)
			members.Post("/quick", s.QuickCreateMember)
			members.Get("/{memberId}", s.MemberDetail)
			members.Put("/{memberId}", s.UpdateMember)
			members.Delete("/{memberId}", s.DeleteMember)
			members.Get("/{memberId}/name-history", s.ListNameHistory)
			members.Post("/{memberId}/name-history", s.AddNameHistory)
			members.Get("/{memberId}/membership-periods", s.ListMembershipPeriods)
			members.Post("/{memberId}/membership-periods", s.AddMembershipPeriod)
			members.Get("/{memberId}/roles", s.MemberRoles)
			members.Get("/{memberId}/media", s.MemberMedia)
			members.Get("/{memberId}/mentions", s.MemberMentions)
		})

		api.Route("/activities", func(activities chi.Router) {
			activities.Get("/", s.ListActivities)
			activities.Post("/", s.CreateActivity)
			activities.Get("/{activityId}", s.ActivityDetail)
			activities.Put("/{activityId}", s.UpdateActivity)
			activities.Delete("/{activityId}", s.DeleteActivity)
			activities.Post("/{activityId}/parse-roles", s.ParseRoles)
			activities.Post("/{activityId}/finalize-media", s.FinalizeActivityMedia)
			activities.Post("/{activityId}/bulk-assign", s.BulkAssignMedia)
			activities.Get("/{activityId}/roles", s.ActivityRoles)
			activities.Get("/{activityId}/media", s.ActivityMedia)
			activities.Get("/{activityId}/mentions", s.ActivityMentions)
			activities.Get("/{activityId}/locations", s.ActivityLocations)
			activities.Post("/{activityId}/locations", s.LinkActivityLocation)
			activities.Delete("/{activityId}/locations/{locationId}", s.UnlinkActivityLocation)
		})

		api.Route("/locations", func(locations chi.Router) {
			locations.Get("/", s.ListLocations)
			locations.Post("/", s.CreateLocation)
			locations.Get("/{locationId}", s.GetLocation)
			locations.Delete("/{locationId}", s.DeleteLocation)
		})

		api.Route("/roles", func(roles chi.Router) {
			roles.Post("/", s.CreateRole)
			roles.Get("/{roleId}", s.GetRole)
			roles.Put("/{roleId}", s.UpdateRole)
			roles.Delete("/{roleId}", s.DeleteRole)
		})

		api.Route("/media", func(media chi.Router) {
			media.Post("/upload", s.UploadMedia)
			media.Get("/search", s.SearchMedia)
			media.Get("/types", s.ListMediaTypes)
			media.Get("/files/*", s.MediaFile)
			media.Get("/thumbnails/*", s.MediaThumbnail)
			media.Get("/{mediaId}", s.GetMediaItem)
			media.Put("/{mediaId}", s.UpdateMediaItem)
			media.Delete("/{mediaId}", s.DeleteMediaItem)
			media.Post("/{mediaId}/finalize", s.FinalizeMediaItem)
			media.Get("/{mediaId}/appearances", s.ListAppearances)
			media.Post("/{mediaId}/appearances", s.CreateAppearance)
		})

		api.Route("/appearances", func(appearances chi.Router) {
			appearances.Get("/{appearanceId}", s.GetAppearance)
			appearances.Put("/{appearanceId}", s.UpdateAppearance)
			appearances.Delete("/{appearanceId}", s.DeleteAppearance)
		})

		api.Route("/mentions", func(mentions chi.Router) {
			mentions.Get("/", s.ListMentions)
			mentions.Post("/", s.CreateMention)
			mentions.Get("/{mentionId}", s.GetMention)
			mentions.Put("/{mentionId}", s.UpdateMention)
			mentions.Delete("/{mentionId}", s.DeleteMention)
			mentions.Get("/{mentionId}/links", s.MentionLinks)
			mentions.Post("/{mentionId}/members/{memberId}", s.LinkMentionMember)
			mentions.Delete("/{mentionId}/members/{memberId}", s.UnlinkMentionMember)
			mentions.Post("/{mentionId}/activities/{activityId}", s.LinkMentionActivity)
			mentions.Delete("/{mentionId}/activities/{activityId}", s.UnlinkMentionActivity)
			mentions.Post("/{mentionId}/media/{mediaId}", s.LinkMentionMediaItem)
			mentions.Delete("/{mentionId}/media/{mediaId}", s.UnlinkMentionMediaItem)
		})

		api.Get("/timeline", s.Timeline)
		api.Get("/search", s.Search)

		api.Route("/admin", func(admin chi.Router) {
			admin.Get("/metrics/history", s.MetricsHistory)
			admin.Get("/metrics/socket", s.MetricsSocket)
		})
	})

	return r
}
