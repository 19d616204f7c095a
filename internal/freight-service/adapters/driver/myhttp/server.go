package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"freight-bid/internal/config"
	"freight-bid/internal/freight-service/adapters/driven/bm"
	"freight-bid/internal/freight-service/adapters/driven/db"
	"freight-bid/internal/freight-service/adapters/driver/myhttp/handle"
	"freight-bid/internal/freight-service/adapters/driver/myhttp/middleware"
	"freight-bid/internal/freight-service/adapters/driver/myhttp/ws"
	"freight-bid/internal/freight-service/core/ports"
	"freight-bid/internal/freight-service/core/services"
	"freight-bid/internal/mylogger"
)

const WaitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DB
	mb     ports.IFreightBroker
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}

	return s
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	// Initialize database connection
	db, err := db.New(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	if err := db.EnsureSchema(s.ctx); err != nil {
		return err
	}
	mylog.Info("Successful database connection")

	// Initialize RabbitMQ connection
	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	// Configure routes and handlers
	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.FreightServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.FreightServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires the store, services, handlers and routes.
func (s *Server) Configure() {
	store := db.NewStore(s.db)

	dispatcher := ws.NewDispatcher(s.mylog)

	// services
	loadService := services.NewLoadService(s.mylog, store, s.mb, dispatcher)
	bidService := services.NewBidService(s.mylog, store, s.mb, dispatcher)
	bookingService := services.NewBookingService(s.mylog, store, s.mb, dispatcher)
	transporterService := services.NewTransporterService(s.mylog, store)

	// handlers
	loadsHandler := handle.NewLoadsHandler(loadService, s.mylog)
	bidsHandler := handle.NewBidsHandler(bidService, s.mylog)
	bookingsHandler := handle.NewBookingsHandler(bookingService, s.mylog)
	transportersHandler := handle.NewTransportersHandler(transporterService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	// loads
	s.mux.Handle("POST /api/loads", authMiddleware.WrapRole("SHIPPER", loadsHandler.CreateLoad()))
	s.mux.Handle("GET /api/loads", loadsHandler.ListLoads())
	s.mux.Handle("GET /api/loads/{load_id}", loadsHandler.GetLoad())
	s.mux.Handle("PUT /api/loads/{load_id}", authMiddleware.WrapRole("SHIPPER", loadsHandler.UpdateLoad()))
	s.mux.Handle("PATCH /api/loads/{load_id}/cancel", authMiddleware.WrapRole("SHIPPER", loadsHandler.CancelLoad()))
	s.mux.Handle("GET /api/loads/{load_id}/best-bids", loadsHandler.BestBids())

	// bids
	s.mux.Handle("POST /api/bids", authMiddleware.WrapRole("TRANSPORTER", bidsHandler.SubmitBid()))
	s.mux.Handle("GET /api/bids", bidsHandler.FilterBids())
	s.mux.Handle("GET /api/bids/{bid_id}", bidsHandler.GetBid())
	s.mux.Handle("PATCH /api/bids/{bid_id}/reject", authMiddleware.Wrap(bidsHandler.RejectBid()))

	// bookings
	s.mux.Handle("POST /api/bookings", authMiddleware.Wrap(bookingsHandler.CreateBooking()))
	s.mux.Handle("GET /api/bookings", bookingsHandler.ListBookings())
	s.mux.Handle("GET /api/bookings/{booking_id}", bookingsHandler.GetBooking())
	s.mux.Handle("PATCH /api/bookings/{booking_id}/cancel", authMiddleware.Wrap(bookingsHandler.CancelBooking()))

	// transporters
	s.mux.Handle("POST /api/transporters", transportersHandler.RegisterTransporter())
	s.mux.Handle("GET /api/transporters", transportersHandler.ListTransporters())
	s.mux.Handle("GET /api/transporters/{transporter_id}", transportersHandler.GetTransporter())
	s.mux.Handle("PUT /api/transporters/{transporter_id}", authMiddleware.WrapRole("TRANSPORTER", transportersHandler.ReplaceFleet()))

	// websocket routes
	s.mux.Handle("/ws/transporters/{transporter_id}", dispatcher.WsHandler())

	// health
	s.mux.HandleFunc("GET /health", s.healthHandler)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.IsAlive(); err != nil {
		handle.JsonError(w, http.StatusServiceUnavailable, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}
