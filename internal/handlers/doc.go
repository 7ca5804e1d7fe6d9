// Package handlers implements the HTTP layer of the offline sandbox.
//
// The sandbox answers the same routes the account service, the EMP back office
// and the browser launcher expose, with the same response envelope, so the API
// clients and the sign-up flow can run without network access. Handlers delegate
// state changes to services.Sandbox and focus on request binding, authentication
// and error mapping.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Bearer / basic authentication                                │
//	│  - Body binding through models.Parse                            │
//	│  - Error mapping to HTTP status codes                           │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                   services.Sandbox (in memory)                  │
//	│  accounts │ refresh tokens │ workspaces │ profiles              │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
// Account Endpoints (account.go):
//
//	┌────────┬─────────────────────┬────────┬─────────────────────────────┐
//	│ Method │ Endpoint            │ Auth   │ Description                 │
//	├────────┼─────────────────────┼────────┼─────────────────────────────┤
//	│ POST   │ /user/signup        │ none   │ Create an owner account     │
//	│ POST   │ /user/signin        │ none   │ Issue a token pair          │
//	│ POST   │ /user/refresh_token │ none   │ Rotate the token pair       │
//	│ GET    │ /user/verify_email  │ bearer │ Verify with the EMP token   │
//	│ GET    │ /user/workspaces    │ bearer │ List the user's workspaces  │
//	│ GET    │ /workspace/folders  │ bearer │ List the workspace folders  │
//	│ POST   │ /profile/create     │ bearer │ Create browser profiles     │
//	│ POST   │ /profile/remove     │ bearer │ Remove browser profiles     │
//	└────────┴─────────────────────┴────────┴─────────────────────────────┘
//
// EMP Endpoints (emp.go), protected by basic auth:
//
//	┌────────┬─────────────────────────┬──────────────────────────────────┐
//	│ Method │ Endpoint                │ Description                      │
//	├────────┼─────────────────────────┼──────────────────────────────────┤
//	│ GET    │ /emp/verification_token │ Email token issued at sign-up    │
//	│ POST   │ /emp/restrictions       │ Assign a plan to a workspace     │
//	└────────┴─────────────────────────┴──────────────────────────────────┘
//
// Launcher Endpoints (launcher.go):
//
//	┌────────┬──────────────────────────────────────────┬──────────────────┐
//	│ Method │ Endpoint                                 │ Description      │
//	├────────┼──────────────────────────────────────────┼──────────────────┤
//	│ GET    │ /api/v2/profile/f/{folder}/p/{id}/start  │ Start a profile  │
//	│ POST   │ /api/v2/cookie_import                    │ Import cookies   │
//	│ GET    │ /api/v1/profile/stop/p/{id}              │ Stop a profile   │
//	└────────┴──────────────────────────────────────────┴──────────────────┘
//
// # Response Envelope
//
// Every JSON answer uses the envelope of the real services:
//
//	{
//	    "status": {"http_code": 201, "error_code": "", "message": "Successful signup"},
//	    "data": {}
//	}
//
// Basic auth failures on /emp are answered by gin.BasicAuth with an empty body.
//
// # Error Handling
//
// HTTP Status Code Mapping:
//
//	┌─────────────────────────────┬────────┬──────────────────────────────┐
//	│ Error Type                  │ Status │ error_code                   │
//	├─────────────────────────────┼────────┼──────────────────────────────┤
//	│ ValidationError             │ 400    │ BAD_REQUEST                  │
//	│ AuthenticationError         │ 401    │ UNAUTHORIZED                 │
//	│ ForbiddenError              │ 403    │ FORBIDDEN                    │
//	│ ResourceNotFoundError       │ 404    │ NOT_FOUND                    │
//	│ ConflictError               │ 409    │ CONFLICT                     │
//	│ Internal error              │ 500    │ INTERNAL_ERROR               │
//	└─────────────────────────────┴────────┴──────────────────────────────┘
package handlers
