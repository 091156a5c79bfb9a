package restapi

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerfiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware
	"golang.org/x/sync/errgroup"

	"github.com/sharedcode/lrc"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-ID"

// Server exposes scheme compilation and the scheme repository.
type Server struct {
	Repository lrc.SchemeRepository
	// Options are the compiler options used when a request doesn't override them.
	Options  lrc.CompilerOptions
	Verifier TokenVerifier
	methods  map[string]RestMethod
}

// NewServer registers the scheme routes. A nil verifier means Okta.
func NewServer(repo lrc.SchemeRepository, opts lrc.CompilerOptions, verifier TokenVerifier) *Server {
	s := &Server{
		Repository: repo,
		Options:    opts,
		Verifier:   verifier,
		methods:    make(map[string]RestMethod),
	}
	s.RegisterMethod(POST, "/schemes/compile", s.CompileScheme)
	s.RegisterMethod(GET, "/schemes", s.LookupScheme)
	s.RegisterMethod(POST, "/schemes", s.AddScheme)
	return s
}

func requestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(RequestIDHeader, id)
	c.Header(RequestIDHeader, id)
	c.Next()
}

// Router returns the gin engine serving the registered methods and the swagger UI.
func (s *Server) Router() *gin.Engine {
	if s.Verifier == nil {
		s.Verifier = NewOktaVerifier()
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestID)

	v1 := router.Group(BasePath, verifyHeaderToken(s.Verifier))
	for _, rm := range s.methods {
		switch rm.Verb {
		case GET:
			v1.GET(rm.Path, rm.Handler)
		case POST:
			v1.POST(rm.Path, rm.Handler)
		case PUT:
			v1.PUT(rm.Path, rm.Handler)
		case DELETE:
			v1.DELETE(rm.Path, rm.Handler)
		default:
			panic(fmt.Sprintf("HTTP verb %d not supported", rm.Verb))
		}
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
	return router
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("REST API listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return eg.Wait()
}
