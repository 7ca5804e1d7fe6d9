package models

import "github.com/google/uuid"

type ProfileFlags struct {
	AudioMasking        string `json:"audio_masking"`
	FontsMasking        string `json:"fonts_masking"`
	GeolocationMasking  string `json:"geolocation_masking"`
	GeolocationPopup    string `json:"geolocation_popup"`
	GraphicsMasking     string `json:"graphics_masking"`
	GraphicsNoise       string `json:"graphics_noise"`
	LocalizationMasking string `json:"localization_masking"`
	MediaDevicesMasking string `json:"media_devices_masking"`
	NavigatorMasking    string `json:"navigator_masking"`
	PortsMasking        string `json:"ports_masking"`
	ProxyMasking        string `json:"proxy_masking"`
	QuicMode            string `json:"quic_mode"`
	ScreenMasking       string `json:"screen_masking"`
	TimezoneMasking     string `json:"timezone_masking"`
	WebrtcMasking       string `json:"webrtc_masking"`
	StartupBehavior     string `json:"startup_behavior"`
}

type ProfileStorage struct {
	IsLocal           bool `json:"is_local"`
	SaveServiceWorker bool `json:"save_service_worker"`
}

type ProfileParameters struct {
	Fingerprint map[string]any `json:"fingerprint"`
	Flags       ProfileFlags   `json:"flags"`
	Storage     ProfileStorage `json:"storage"`
}

type CreateProfileRequest struct {
	BrowserType string            `json:"browser_type" validate:"required"`
	FolderID    string            `json:"folder_id" validate:"required"`
	CoreVersion int               `json:"core_version"`
	Name        string            `json:"name" validate:"required"`
	OSType      string            `json:"os_type" validate:"required"`
	Parameters  ProfileParameters `json:"parameters"`
	Times       int               `json:"times" validate:"min=1"`
}

// GenericProfile returns a cloud mimic profile on windows with every fingerprint component masked.
func GenericProfile(folderID string) CreateProfileRequest {
	return CreateProfileRequest{
		BrowserType: "mimic",
		FolderID:    folderID,
		CoreVersion: 131,
		Name:        "e2e-" + uuid.NewString()[:8],
		OSType:      "windows",
		Parameters: ProfileParameters{
			Fingerprint: map[string]any{},
			Flags: ProfileFlags{
				AudioMasking:        "mask",
				FontsMasking:        "mask",
				GeolocationMasking:  "mask",
				GeolocationPopup:    "prompt",
				GraphicsMasking:     "mask",
				GraphicsNoise:       "mask",
				LocalizationMasking: "mask",
				MediaDevicesMasking: "mask",
				NavigatorMasking:    "mask",
				PortsMasking:        "mask",
				ProxyMasking:        "disabled",
				QuicMode:            "natural",
				ScreenMasking:       "mask",
				TimezoneMasking:     "mask",
				WebrtcMasking:       "disabled",
				StartupBehavior:     "recover",
			},
			Storage: ProfileStorage{IsLocal: false, SaveServiceWorker: false},
		},
		Times: 1,
	}
}

// Validate checks the request before it is sent.
func (p CreateProfileRequest) Validate() error {
	return validate.Struct(p)
}
