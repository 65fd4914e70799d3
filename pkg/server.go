package lambdakernel

import (
	"fmt"
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	clog "github.com/vilterp/lambdakernel/pkg/log"
	"go.uber.org/zap"
)

type Server struct {
	service    *Service
	httpServer *http.Server
}

func NewServer(config *Config) (*Server, error) {
	service, err := NewService(config)
	if err != nil {
		return nil, err
	}
	clog.L().Info("opened proof store", zap.String("data_file", config.DataFile))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: newHandler(service),
	}
	return &Server{
		service:    service,
		httpServer: httpServer,
	}, nil
}

func newHandler(service *Service) http.Handler {
	mux := http.NewServeMux()

	// Serve metrics.
	mux.Handle(
		"/metrics",
		promhttp.HandlerFor(service.metrics.registry, promhttp.HandlerOpts{}),
	)

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// Serve WebSocket endpoint for kernel requests.
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(_ *http.Request) bool { return true },
	}
	mux.HandleFunc("/ws", func(resp http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(resp, req, nil)
		if err != nil {
			clog.L().Info("websocket upgrade failed", zap.Error(err))
			return
		}
		service.addConnection(conn)
	})

	return mux
}

func (s *Server) Service() *Service {
	return s.service
}

func (s *Server) ListenAndServe() error {
	clog.L().Info("serving HTTP", zap.String("url", fmt.Sprintf("http://%s/", s.httpServer.Addr)))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Close() error {
	clog.L().Info("closing http server")
	if err := s.httpServer.Close(); err != nil {
		return err
	}
	clog.L().Info("closing connections and proof store")
	if err := s.service.Close(); err != nil {
		return err
	}
	clog.L().Info("bye!")
	return nil
}
