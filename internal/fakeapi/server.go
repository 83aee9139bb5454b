// Package fakeapi is an in-memory implementation of the portal backend REST
// API. It speaks the {status, data, message} envelope and is used for local
// development and by the data-access round-trip tests.
package fakeapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/middleware"
	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
	"github.com/hmtc-its/hmtc-portal/pkg/logger"
	"github.com/hmtc-its/hmtc-portal/pkg/middleware/requestid"
	"github.com/hmtc-its/hmtc-portal/pkg/storage"
)

// BasePath prefixes every backend route.
const BasePath = "/api/v1"

// Config configures the fake backend.
type Config struct {
	JWTSecret      string
	TokenTTL       time.Duration
	AdminNRP       string
	AdminPassword  string
	MaxUploadBytes int64
	Storage        *storage.LocalStorage
	Logger         *zap.Logger
}

// Server is the fake backend.
type Server struct {
	cfg    Config
	store  *store
	tokens *tokenIssuer
	files  *storage.LocalStorage
	logger *zap.Logger
	engine *gin.Engine
}

// New builds the server and seeds the admin account.
func New(cfg Config) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("fakeapi: JWT secret is required")
	}
	if cfg.Storage == nil {
		return nil, errors.New("fakeapi: storage is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 * validation.MiB
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		store:  newStore(time.Now),
		tokens: newTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, time.Now),
		files:  cfg.Storage,
		logger: cfg.Logger,
	}
	if cfg.AdminNRP != "" {
		if err := s.store.seedAdmin(cfg.AdminNRP, cfg.AdminPassword); err != nil {
			return nil, err
		}
	}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ValidateToken verifies tokens issued by this server.
func (s *Server) ValidateToken(token string) (*models.JWTClaims, error) {
	return s.tokens.ValidateToken(token)
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestid.Middleware(), logger.GinMiddleware(s.logger))
	r.MaxMultipartMemory = 8 << 20

	r.GET("/health", func(c *gin.Context) { ok(c, http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group(BasePath)
	authRequired := middleware.JWT(s.tokens, fail)
	authOptional := middleware.OptionalJWT(s.tokens)
	adminOnly := middleware.RequireAdmin(fail)

	auth := api.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/register", s.register)
	auth.POST("/forgot-password", s.forgotPassword)
	auth.PATCH("/change-password", authRequired, s.changePassword)

	galleries := api.Group("/galleries")
	galleries.GET("", s.listGalleries)
	galleries.GET("/:id", s.getGallery)
	galleries.POST("", authRequired, adminOnly, s.createGallery)
	galleries.PATCH("/:id", authRequired, adminOnly, s.updateGallery)
	galleries.DELETE("/:id", authRequired, adminOnly, s.deleteGallery)

	me := api.Group("/users/me", authRequired)
	me.GET("", s.getMe)
	me.PATCH("", s.updateMe)
	me.POST("/avatar", s.uploadAvatar)

	repos := api.Group("/repositories")
	repos.GET("", authOptional, s.listRepositories)
	repos.GET("/:id", authOptional, s.getRepository)
	repos.POST("", authRequired, s.createRepository)
	repos.PATCH("/:id", authRequired, s.updateRepository)
	repos.PATCH("/:id/status", authRequired, s.updateRepositoryStatus)
	repos.DELETE("/:id", authRequired, adminOnly, s.deleteRepository)

	requests := api.Group("/requests", authRequired)
	requests.GET("", s.listRequests)
	requests.GET("/:id", s.getRequest)
	requests.POST("", s.createRequest)
	requests.PATCH("/:id/review", adminOnly, s.reviewRequest)

	uploads := api.Group("/uploads", authRequired)
	uploads.GET("", s.listUploads)
	uploads.GET("/:id", s.getUpload)
	uploads.POST("", s.submitUpload)
	uploads.PATCH("/:id/review", adminOnly, s.reviewUpload)

	api.GET("/files/*name", s.serveFile)
	return r
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, apiclient.Envelope[interface{}]{Status: true, Data: data})
}

// fail writes {status:false, message}. Validation failures carry the full
// field list in the message.
func fail(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	message := appErr.Message
	if len(appErr.Fields) > 0 {
		message = err.Error()
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Status, apiclient.Envelope[interface{}]{Status: false, Message: message})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return 0, false
	}
	return id, true
}

func paging(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page"))
	limit, _ = strconv.Atoi(c.Query("limit"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func paginate[T any](items []T, page, limit int) models.Page[T] {
	out := models.Page[T]{Items: []T{}}
	out.Pagination.Page = page
	out.Pagination.Limit = limit
	out.Pagination.TotalCount = len(items)
	if page-1 >= (len(items)+limit-1)/limit {
		return out
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	out.Items = append(out.Items, items[start:end]...)
	return out
}
