package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

// (GET /emp/verification_token)
func (h *Handler) GetVerificationToken(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondError(c, srvErrors.NewValidationError("email", errors.New("email query parameter is required")))
		return
	}

	tk, err := h.sandbox.EmailToken(email)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", models.EmailToken{Token: tk})
}

// (POST /emp/restrictions)
func (h *Handler) SetRestrictions(c *gin.Context) {
	req, ok := bind[models.RestrictionsRequest](c)
	if !ok {
		return
	}

	if err := h.sandbox.SetRestrictions(*req); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Restrictions updated", nil)
}
