package router

import (
	"net/http"

	"support-desk-backend/internal/api"
	"support-desk-backend/internal/api/endpoints"
	"support-desk-backend/internal/api/middleware"
)

func TicketRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		ticketEndpoints := endpoints.NewTicketEndpoints(s.Services().Tickets)

		mux.HandleFunc(prefix+"/tickets", s.MakeHTTPHandleFunc(ticketEndpoints.Tickets, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/tickets/next-id", s.MakeHTTPHandleFunc(ticketEndpoints.NextID, middleware.ValidateUserJWT))
	}
}
