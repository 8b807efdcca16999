package api

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"support-desk-backend/internal/queue"
	"support-desk-backend/internal/service/auth"
	"support-desk-backend/internal/service/conversation"
	"support-desk-backend/internal/service/order"
	"support-desk-backend/internal/service/shipping"
	"support-desk-backend/internal/service/ticket"
	"support-desk-backend/internal/store"
	"support-desk-backend/internal/websocket"
)

type RouteRegistrar func(mux *http.ServeMux, s *APIServer)

// Services bundles everything the endpoint handlers reach for.
type Services struct {
	Auth          *auth.Service
	Conversations *conversation.Service
	Orders        *order.Service
	Shipping      *shipping.Service
	Tickets       *ticket.Service
}

type APIServer struct {
	listenAddr          string
	requestQueueManager *queue.RequestQueueManager
	services            Services
	store               *store.Store
	routeRegistrars     []RouteRegistrar
	handler             *websocket.Handler
	metrics             *metrics
}

func NewAPIServer(listenAddr string, rqm *queue.RequestQueueManager, services Services, st *store.Store, handler *websocket.Handler, registrars ...RouteRegistrar) *APIServer {

	return &APIServer{
		listenAddr:          listenAddr,
		requestQueueManager: rqm,
		services:            services,
		store:               st,
		handler:             handler,
		routeRegistrars:     registrars,
		metrics:             newMetrics(prometheus.DefaultRegisterer, listenAddr, rqm),
	}
}

func (s *APIServer) Run() {
	mux := http.NewServeMux()

	for _, reg := range s.routeRegistrars {
		reg(mux, s)
	}

	mux.Handle("/metrics", s.metrics.metricsHandler())

	fmt.Printf("Server listening on http://localhost%s\n", s.listenAddr)

	if err := http.ListenAndServe(s.listenAddr, s.metrics.instrument(mux)); err != nil {
		fmt.Printf("server stopped: %v\n", err)
	}
}

func (s *APIServer) Services() Services {
	return s.services
}

func (s *APIServer) Store() *store.Store {
	return s.store
}

func (s *APIServer) Handler() *websocket.Handler {
	return s.handler
}
