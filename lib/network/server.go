package network

import (
	"context"
	"io"
	goLog "log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"golang.org/x/net/http2"
)

const UrlPathPrefixAPI = "/api/v1"

// Server is the http2 server of a node. Routes are added to `Router()` or to
// the `/api/v1` sub router before `Start()`.
type Server struct {
	config *ServerConfig
	server *http.Server
	router *mux.Router
	api    *mux.Router
	log    logging.Logger
}

func NewServer(config *ServerConfig) *Server {
	httpLog := log.New(logging.Ctx{"endpoint": config.Endpoint.String()})

	server := &http.Server{
		Addr:              config.Addr,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
		ErrorLog:          goLog.New(ErrorLog15Writer{httpLog}, "", 0),
	}
	server.SetKeepAlivesEnabled(true)

	http2.ConfigureServer(server, &http2.Server{IdleTimeout: config.IdleTimeout})

	router := mux.NewRouter()

	s := &Server{
		config: config,
		server: server,
		router: router,
		api:    router.PathPrefix(UrlPathPrefixAPI).Subrouter(),
		log:    httpLog,
	}
	server.Handler = s.Handler()

	return s
}

func (s *Server) Router() *mux.Router {
	return s.router
}

func (s *Server) APIRouter() *mux.Router {
	return s.api
}

// Handler is the full handler chain: request id, access log and the router.
func (s *Server) Handler() http.Handler {
	return RequestIDMiddleware(Log15Handler{log: s.log, handler: s.router})
}

// AccessLog writes the combined log format of every request to `out`.
func (s *Server) AccessLog(out io.Writer) {
	s.server.Handler = handlers.CombinedLoggingHandler(out, s.Handler())
}

func (s *Server) Start() error {
	var err error
	if s.config.IsHTTPS() {
		err = s.server.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	} else {
		err = s.server.ListenAndServe()
	}

	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
