package models

import "encoding/json"

// LauncherResponse is the envelope returned by the launcher service.
type LauncherResponse struct {
	Status Status          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type CookieImportRequest struct {
	ProfileID             string `json:"profile_id"`
	FolderID              string `json:"folder_id"`
	Cookies               string `json:"cookies"`
	ImportAdvancedCookies bool   `json:"import_advanced_cookies"`
}
