// Package rest exposes the auth and task services as a JSON HTTP API built
// on gin.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

// UserService is the part of services.UserService the API needs.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	VerifyToken(token string) (string, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

// TaskService is the part of services.TaskService the API needs.
type TaskService interface {
	Create(ctx context.Context, userID string, in models.NewTask) (*models.Task, error)
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Get(ctx context.Context, userID, taskID string) (*models.Task, error)
	Update(ctx context.Context, userID, taskID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	Stats(ctx context.Context, userID string) (*models.TaskStats, error)
}

// Options tunes the HTTP boundary.
type Options struct {
	// RequestTimeout bounds every request's context. Zero disables it.
	RequestTimeout time.Duration
	// ShutdownTimeout is how long Run waits for in-flight requests.
	ShutdownTimeout time.Duration
	// AllowedOrigins is a comma separated CORS allow-list, "*" for any.
	AllowedOrigins string
}

type HTTPServer struct {
	address string
	users   UserService
	tasks   TaskService
	logger  logging.Logger
	opts    Options
	metrics *Metrics
	router  *gin.Engine
}

func NewHTTPServer(address string, l logging.Logger, us UserService, ts TaskService, opts Options) *HTTPServer {
	s := &HTTPServer{
		address: address,
		users:   us,
		tasks:   ts,
		logger:  l.With("module", "http_server"),
		opts:    opts,
		metrics: NewMetrics(),
	}
	s.router = s.newRouter()
	return s
}

// Handler returns the configured router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.metrics.Middleware(), corsMiddleware(s.opts.AllowedOrigins), timeoutMiddleware(s.opts.RequestTimeout))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Task Management API running")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.register)
		authGroup.POST("/login", s.login)
		authGroup.GET("/profile", s.authMiddleware(), s.profile)
	}

	tasks := api.Group("/tasks", s.authMiddleware())
	{
		tasks.POST("", s.createTask)
		tasks.GET("", s.listTasks)
		tasks.GET("/stats", s.taskStats)
		tasks.GET("/:id", s.getTask)
		tasks.PUT("/:id", s.updateTask)
		tasks.DELETE("/:id", s.deleteTask)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-shutdownDone
}
