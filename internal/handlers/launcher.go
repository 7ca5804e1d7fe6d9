package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlx-qa/mlx-e2e/internal/models"
)

// (GET /api/v2/profile/f/:folder/p/:profile/start)
func (h *Handler) StartProfile(c *gin.Context) {
	profileID := c.Param("profile")
	if err := h.sandbox.StartProfile(session(c), c.Param("folder"), profileID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profile started", gin.H{"id": profileID})
}

// (GET /api/v1/profile/stop/p/:profile)
func (h *Handler) StopProfile(c *gin.Context) {
	if err := h.sandbox.StopProfile(session(c), c.Param("profile")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profile stopped", nil)
}

// (POST /api/v2/cookie_import)
func (h *Handler) ImportCookies(c *gin.Context) {
	req, ok := bind[models.CookieImportRequest](c)
	if !ok {
		return
	}

	if err := h.sandbox.ImportCookies(session(c), *req); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Cookies imported", nil)
}
