package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geneailogy/tree-service/internal/middleware"
	"geneailogy/tree-service/pkg/logger"
	"geneailogy/tree-service/pkg/metrics"
)

// NewRouter creates the service router
func NewRouter(
	treeHandler *TreeHandler,
	memberHandler *MemberHandler,
	notificationHandler *NotificationHandler,
	liveHandler *LiveHandler,
	log *logger.Logger,
	m *metrics.Metrics,
) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.CORSMiddleware)
	router.Use(logger.HTTPMiddleware(log))
	router.Use(metrics.HTTPMiddleware(m))

	router.Route("/api", func(r chi.Router) {
		// Member endpoints
		r.Post("/members", memberHandler.CreateMember)
		r.Get("/members/{id}", memberHandler.GetMember)
		r.Delete("/members/{id}", memberHandler.DeleteMember)
		r.Post("/members/{id}/relations", memberHandler.AddRelation)

		// Tree endpoints
		r.Get("/trees/{treeId}/members", memberHandler.ListTreeMembers)
		r.Get("/trees/{treeId}/layout", treeHandler.GetLayout)
		r.Post("/trees/{treeId}/navigate", treeHandler.Navigate)
		r.Post("/trees/{treeId}/back", treeHandler.GoBack)
		r.Post("/trees/{treeId}/root", treeHandler.GoToRoot)

		// Relationship lookup
		r.Get("/relationship", treeHandler.GetRelationship)

		// Notification endpoints
		r.Post("/notifications", notificationHandler.Publish)
		r.Get("/notifications", notificationHandler.List)
		r.Post("/notifications/{id}/read", notificationHandler.MarkAsRead)
	})

	// Live notification stream
	router.Get("/ws/notifications", liveHandler.ServeWS)

	// Operational endpoints
	router.Get("/health", healthCheck)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

// healthCheck provides a health check endpoint
func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
