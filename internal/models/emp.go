package models

type EmailToken struct {
	Token string `json:"token"`
}

// TokenResponse carries the email verification token issued by EMP.
type TokenResponse struct {
	Status Status     `json:"status"`
	Data   EmailToken `json:"data"`
}

type RateLimit struct {
	LimitSize  int    `json:"limit_size"`
	Operation  string `json:"operation"`
	WindowSize string `json:"window_size"`
}

type Restrictions struct {
	PlanName            string      `json:"plan_name"`
	CloudProfilesCount  int         `json:"cloud_profiles_count"`
	AllowedBrowserTypes []string    `json:"allowed_browser_types"`
	FoldersCount        int         `json:"folders_count"`
	LocalProfilesCount  int         `json:"local_profiles_count"`
	TeamMembersCount    int         `json:"team_members_count"`
	ActiveProfilesCount int         `json:"active_profiles_count"`
	AutomationAvailable bool        `json:"automation_available"`
	Ratelimit           []RateLimit `json:"ratelimit"`
}

type RestrictionsRequest struct {
	WorkspaceID  string       `json:"workspace_id" validate:"required"`
	Restrictions Restrictions `json:"restrictions"`
}

// TeamMonthlyPlan returns the plan the sign-up flow assigns to a new workspace.
func TeamMonthlyPlan(workspaceID string) RestrictionsRequest {
	return RestrictionsRequest{
		WorkspaceID: workspaceID,
		Restrictions: Restrictions{
			PlanName:            "Team Monthly",
			CloudProfilesCount:  1000,
			AllowedBrowserTypes: []string{"mimic", "stealthfox", "android"},
			FoldersCount:        100000,
			LocalProfilesCount:  1000,
			TeamMembersCount:    100,
			ActiveProfilesCount: 0,
			AutomationAvailable: true,
			Ratelimit: []RateLimit{
				{LimitSize: 50, Operation: "all", WindowSize: "1m"},
			},
		},
	}
}
