package router

import (
	"net/http"

	"support-desk-backend/internal/api"
	"support-desk-backend/internal/api/endpoints"
	"support-desk-backend/internal/api/middleware"
)

func OrderRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		orderEndpoints := endpoints.NewOrderEndpoints(s.Services().Orders)

		mux.HandleFunc(prefix+"/orders", s.MakeHTTPHandleFunc(orderEndpoints.History, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/orders/lookup", s.MakeHTTPHandleFunc(orderEndpoints.Lookup, middleware.ValidateUserJWT))
	}
}
