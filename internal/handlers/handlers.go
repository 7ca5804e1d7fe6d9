package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/internal/services"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

const sessionKey = "session"

type Handler struct {
	sandbox *services.Sandbox
}

func New(sandbox *services.Sandbox) *Handler {
	return &Handler{sandbox: sandbox}
}

// Register mounts the account and EMP routes at the root and the launcher
// routes under /api/v2 and /api/v1.
func (h *Handler) Register(router gin.IRouter, empAccounts gin.Accounts) {
	router.POST("/user/signup", h.SignUp)
	router.POST("/user/signin", h.SignIn)
	router.POST("/user/refresh_token", h.RefreshToken)

	account := router.Group("", h.RequireBearer())
	account.GET("/user/verify_email", h.VerifyEmail)
	account.GET("/user/workspaces", h.GetWorkspaces)
	account.GET("/workspace/folders", h.GetFolders)
	account.POST("/profile/create", h.CreateProfile)
	account.POST("/profile/remove", h.RemoveProfiles)

	emp := router.Group("/emp", gin.BasicAuth(empAccounts))
	emp.GET("/verification_token", h.GetVerificationToken)
	emp.POST("/restrictions", h.SetRestrictions)

	v2 := router.Group("/api/v2", h.RequireBearer())
	v2.GET("/profile/f/:folder/p/:profile/start", h.StartProfile)
	v2.POST("/cookie_import", h.ImportCookies)

	v1 := router.Group("/api/v1", h.RequireBearer())
	v1.GET("/profile/stop/p/:profile", h.StopProfile)
}

// RequireBearer authenticates the request's bearer token and stores the session.
func (h *Handler) RequireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || raw == "" {
			respondError(c, srvErrors.NewAuthenticationError("missing bearer token"))
			c.Abort()
			return
		}

		session, err := h.sandbox.Authenticate(raw)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func session(c *gin.Context) *services.Session {
	return c.MustGet(sessionKey).(*services.Session)
}

type envelope struct {
	Status models.Status `json:"status"`
	Data   any           `json:"data"`
}

func respond(c *gin.Context, code int, message string, data any) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(code, envelope{
		Status: models.Status{HTTPCode: code, Message: message},
		Data:   data,
	})
}

func respondError(c *gin.Context, err error) {
	code, errorCode := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case srvErrors.IsValidationError(err):
		code, errorCode = http.StatusBadRequest, "BAD_REQUEST"
	case srvErrors.IsAuthenticationError(err):
		code, errorCode = http.StatusUnauthorized, "UNAUTHORIZED"
	case srvErrors.IsForbiddenError(err):
		code, errorCode = http.StatusForbidden, "FORBIDDEN"
	case srvErrors.IsResourceNotFoundError(err):
		code, errorCode = http.StatusNotFound, "NOT_FOUND"
	case srvErrors.IsConflictError(err):
		code, errorCode = http.StatusConflict, "CONFLICT"
	}

	c.JSON(code, envelope{
		Status: models.Status{HTTPCode: code, ErrorCode: errorCode, Message: err.Error()},
		Data:   gin.H{},
	})
}

// bind decodes and validates the request body into T.
func bind[T any](c *gin.Context) (*T, bool) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, srvErrors.NewValidationError("request body", err))
		return nil, false
	}

	v, err := models.Parse[T](data)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return v, true
}
