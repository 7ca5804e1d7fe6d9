package models

import "encoding/json"

// --- Requests ---

type UserCreds struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Creds UserCreds `json:"creds"`
}

type RefreshTokenRequest struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
	WorkspaceID  string `json:"workspace_id"`
}

type RemoveProfilesRequest struct {
	IDs         []string `json:"ids"`
	Permanently bool     `json:"permanently"`
}

// --- Responses ---

type Status struct {
	HTTPCode  int    `json:"http_code" validate:"required"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// Response is the generic envelope every MLX endpoint answers with.
type Response struct {
	Status Status          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type SigninData struct {
	Token        string `json:"token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type SigninResponse struct {
	Status Status     `json:"status"`
	Data   SigninData `json:"data"`
}

type Workspace struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
}

type WorkspaceList struct {
	Workspaces []Workspace `json:"workspaces" validate:"required,min=1,dive"`
}

type UserWorkspaceArrayResponse struct {
	Status Status        `json:"status"`
	Data   WorkspaceList `json:"data"`
}

type Folder struct {
	FolderID string `json:"folder_id" validate:"required"`
	Name     string `json:"name"`
	Comment  string `json:"comment,omitempty"`
}

type FolderList struct {
	Folders []Folder `json:"folders" validate:"dive"`
}

type UserFolderArrayResponse struct {
	Status Status     `json:"status"`
	Data   FolderList `json:"data"`
}

// FolderByName returns the id of the first folder called name.
func (r UserFolderArrayResponse) FolderByName(name string) (string, bool) {
	for _, f := range r.Data.Folders {
		if f.Name == name {
			return f.FolderID, true
		}
	}
	return "", false
}

type IDList struct {
	IDs []string `json:"ids" validate:"dive,required"`
}

type ArrayOfIDsResponse struct {
	Status Status `json:"status"`
	Data   IDList `json:"data"`
}
