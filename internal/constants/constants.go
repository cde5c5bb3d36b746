package constants

// Centralized constants for env keys, routes and log field names.
const (
	// Environment variable keys
	EnvConfigPath = "MORDECAI_CONFIG"
	EnvDatabase   = "MORDECAI_DB"
	EnvListenAddr = "MORDECAI_ADDR"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"
)

// Routes used by the read-only inspection API.
const (
	RouteAPIPrefix       = "/api"
	RouteHealthz         = "/healthz"
	RouteSessions        = "/sessions"
	RouteSessionByUUID   = "/sessions/:sessionUUID"
	RouteSessionLog      = "/sessions/:sessionUUID/log"
	RouteCombatantVitals = "/combatants/:key/vitals"
	RouteEffectCatalog   = "/effects"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrSessionNotFound       = "Session not found"
	ErrCombatantNotFound     = "Combatant not found"
	ErrFailedFetchSessions   = "Failed to fetch sessions"
	ErrFailedFetchSessionLog = "Failed to fetch session log"
	ErrFailedFetchCombatant  = "Failed to fetch combatant"
)

// Logging field names
const (
	LogFieldSessionUUID = "session_uuid"
	LogFieldCombatant   = "combatant_key"
	LogFieldTarget      = "target_key"
	LogFieldRoom        = "room_id"
	LogFieldEffect      = "effect_key"
	LogFieldTemplate    = "template"
	LogFieldAddr        = "addr"
	LogFieldPulse       = "pulse"
)
