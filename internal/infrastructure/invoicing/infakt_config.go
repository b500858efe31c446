package invoicing

import "errors"

// InfaktProductionHost is the default production API host
const InfaktProductionHost = "api.infakt.pl"

// Errors for inFakt configuration
var (
	ErrInfaktConfigMissingAPIKey = errors.New("infakt: api key is required")
)

// InfaktConfig holds configuration for the inFakt invoicing API
type InfaktConfig struct {
	// APIKey authenticates requests via the X-inFakt-ApiKey header
	APIKey string
	// Host is the API host; APIBaseURL overrides it when set
	Host string
	// APIBaseURL is the full base URL, used directly when non-empty
	// (tests point it at a local server)
	APIBaseURL string
	// Series is the invoice numbering series
	Series string
	// MarkPaidEnabled triggers the mark-paid follow-up call when the
	// invoice acceptance response carries an invoice UUID
	MarkPaidEnabled bool
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// NewInfaktConfig creates an inFakt configuration with production defaults
func NewInfaktConfig(apiKey string) *InfaktConfig {
	return &InfaktConfig{
		APIKey:          apiKey,
		Host:            InfaktProductionHost,
		Series:          "A",
		MarkPaidEnabled: true,
		TimeoutSeconds:  30,
	}
}

// Validate validates the configuration and fills in defaults
func (c *InfaktConfig) Validate() error {
	if c.APIKey == "" {
		return ErrInfaktConfigMissingAPIKey
	}
	if c.Host == "" {
		c.Host = InfaktProductionHost
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = "https://" + c.Host
	}
	if c.Series == "" {
		c.Series = "A"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
