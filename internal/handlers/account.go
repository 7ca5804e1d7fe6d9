package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlx-qa/mlx-e2e/internal/models"
)

// (POST /user/signup)
func (h *Handler) SignUp(c *gin.Context) {
	req, ok := bind[models.SignupRequest](c)
	if !ok {
		return
	}

	if err := h.sandbox.SignUp(req.Creds.Email, req.Creds.Password); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Successful signup", nil)
}

// (POST /user/signin)
func (h *Handler) SignIn(c *gin.Context) {
	req, ok := bind[models.UserCreds](c)
	if !ok {
		return
	}

	tk, refresh, err := h.sandbox.SignIn(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Successful signin", models.SigninData{Token: tk, RefreshToken: refresh})
}

// (POST /user/refresh_token)
func (h *Handler) RefreshToken(c *gin.Context) {
	req, ok := bind[models.RefreshTokenRequest](c)
	if !ok {
		return
	}

	tk, refresh, err := h.sandbox.Refresh(req.Email, req.WorkspaceID, req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Successful refresh", models.SigninData{Token: tk, RefreshToken: refresh})
}

// (GET /user/verify_email)
func (h *Handler) VerifyEmail(c *gin.Context) {
	if err := h.sandbox.VerifyEmail(session(c), c.Query("email"), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Email successfully verified", nil)
}

// (GET /user/workspaces)
func (h *Handler) GetWorkspaces(c *gin.Context) {
	respond(c, http.StatusOK, "", models.WorkspaceList{Workspaces: h.sandbox.Workspaces(session(c))})
}

// (GET /workspace/folders)
func (h *Handler) GetFolders(c *gin.Context) {
	folders, err := h.sandbox.Folders(session(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "", models.FolderList{Folders: folders})
}

// (POST /profile/create)
func (h *Handler) CreateProfile(c *gin.Context) {
	req, ok := bind[models.CreateProfileRequest](c)
	if !ok {
		return
	}

	ids, err := h.sandbox.CreateProfiles(session(c), *req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Profile created", models.IDList{IDs: ids})
}

// (POST /profile/remove)
func (h *Handler) RemoveProfiles(c *gin.Context) {
	req, ok := bind[models.RemoveProfilesRequest](c)
	if !ok {
		return
	}

	if err := h.sandbox.RemoveProfiles(session(c), req.IDs); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profiles removed", nil)
}
