package routes

import (
	"github.com/gorilla/mux"

	"petmatch_server/controllers"
)

// RegisterInteractionRoutes sets up the swipe feed routes under /api/petmatch
func RegisterInteractionRoutes(r *mux.Router, controller *controllers.InteractionController, auth mux.MiddlewareFunc) {
	petmatchRouter := r.PathPrefix("/api/petmatch").Subrouter()
	petmatchRouter.Use(auth)
	petmatchRouter.HandleFunc("/next", controller.HandleNextCard).Methods("GET")
	petmatchRouter.HandleFunc("/action", controller.HandleAction).Methods("POST")
	petmatchRouter.HandleFunc("/favorites", controller.HandleFavorites).Methods("GET")
	petmatchRouter.HandleFunc("/favorites/ids", controller.HandleFavoriteIDs).Methods("GET")
}
