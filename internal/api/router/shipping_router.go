package router

import (
	"net/http"

	"support-desk-backend/internal/api"
	"support-desk-backend/internal/api/endpoints"
	"support-desk-backend/internal/api/middleware"
)

func ShippingRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		shippingEndpoints := endpoints.NewShippingEndpoints(s.Services().Shipping)

		mux.HandleFunc(prefix+"/shipping-requests", s.MakeHTTPHandleFunc(shippingEndpoints.Requests, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/shipping-requests/status", s.MakeHTTPHandleFunc(shippingEndpoints.Status, middleware.ValidateUserJWT))
	}
}
