package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"petmatch_server/controllers"
)

// RegisterRoutes sets up the unauthenticated routes for the application
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.HandleFunc("/welcome", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// RegisterSocketRoutes mounts the Socket.IO endpoint
func RegisterSocketRoutes(r *mux.Router, socketHandler http.Handler) {
	r.PathPrefix("/socket.io/").Handler(socketHandler)
}
