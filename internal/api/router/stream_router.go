package router

import (
	"net/http"

	"support-desk-backend/internal/api"
	"support-desk-backend/internal/api/endpoints"
	"support-desk-backend/internal/api/middleware"
)

func StreamRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		streamEndpoints := endpoints.NewStreamEndpoints(s.Services().Auth, s.Handler())

		mux.HandleFunc(prefix+"/stream", s.MakeHTTPHandleFunc(streamEndpoints.Stream))
		mux.HandleFunc(prefix+"/stream/rooms", s.MakeHTTPHandleFunc(streamEndpoints.Rooms, middleware.ValidateUserJWT))
	}
}
