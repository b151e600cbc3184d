package leadadmin

import "time"

/*
shared constants for the admin client and the development admin API:
- default endpoints and the storage key used for the admin bearer token
- paging defaults used when listing leads
- common maps - used to list valid values for certain fields e.g destination types
*/

const (
	// DefaultAPIBaseURL is used when API_BASE_URL is not set (local worker dev address)
	DefaultAPIBaseURL = "http://127.0.0.1:8787"

	// TokenStorageKey is the fixed key the admin bearer token is persisted under
	TokenStorageKey = "ADMIN_API_TOKEN"

	// CredentialsFileName is the file (under the user config dir) holding the persisted token
	CredentialsFileName = "credentials.json"
	ConfigDirName       = "leadadmin"

	DefaultPageSize      = 20
	DefaultRoutePriority = 100

	// Operational timeouts (dev admin API)
	ServerShutdownTimeout = 10 * time.Second

	// CORS settings (dev admin API)
	CORSMaxAgeInSeconds = 86400 // 24 hours
)

// envelope keys used by the admin API.
// ResultsKey is the current generic list envelope, the resource keys are the legacy per-resource envelopes.
const (
	ResultsKey         = "results"
	LeadsKey           = "leads"
	DestinationsKey    = "destinations"
	FunnelsKey         = "funnels"
	RoutesKey          = "routes"
	ProviderKeysKey    = "provider_keys"
	LeadKey            = "lead"
	RawPayloadKey      = "raw_payload"
	EnvelopeCurrent    = "current"
	EnvelopeLegacy     = "legacy"
	DestinationWebhook = "webhook"
)

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// ValidEnvironment reports whether env is one of the supported ENVIRONMENT values
func ValidEnvironment(env string) bool {
	return validEnvs[env]
}

// ValidDestinationTypes lists the destination type tags understood by the admin API.
// Unknown tags received from the backend are passed through unchanged.
var ValidDestinationTypes = map[string]bool{ // destinations.type
	DestinationWebhook:            true,
	"crm_contacts":                true,
	"internal_notification_email": true,
	"client_email":                true,
}

var ValidEnvelopeStyles = map[string]bool{
	EnvelopeCurrent: true,
	EnvelopeLegacy:  true,
}
