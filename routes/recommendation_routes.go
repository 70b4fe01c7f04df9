package routes

import (
	"github.com/gorilla/mux"

	"petmatch_server/controllers"
)

// RegisterRecommendationRoutes sets up the ranked recommendations route
func RegisterRecommendationRoutes(r *mux.Router, controller *controllers.RecommendationController, auth mux.MiddlewareFunc) {
	recRouter := r.PathPrefix("/api/recommendations").Subrouter()
	recRouter.Use(auth)
	recRouter.HandleFunc("", controller.HandleRecommendations).Methods("GET")
}
