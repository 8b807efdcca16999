package router

import (
	"net/http"

	"support-desk-backend/internal/api"
	"support-desk-backend/internal/api/endpoints"
	"support-desk-backend/internal/api/middleware"
)

func ConversationRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		convEndpoints := endpoints.NewConversationEndpoints(s.Services().Conversations)

		mux.HandleFunc(prefix+"/conversations", s.MakeHTTPHandleFunc(convEndpoints.List, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/conversations/messages", s.MakeHTTPHandleFunc(convEndpoints.Messages, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/conversations/status", s.MakeHTTPHandleFunc(convEndpoints.Status, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/conversations/reply", s.MakeHTTPHandleFunc(convEndpoints.Reply, middleware.ValidateUserJWT))
	}
}
