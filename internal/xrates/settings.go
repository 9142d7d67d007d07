package xrates

import (
	"fmt"
	"time"

	"scrapekit/internal/config"
)

// Settings is the on-disk form of the collector configuration. Durations are
// Go duration strings ("1s", "500ms"); empty fields take the defaults.
type Settings struct {
	BaseURL       string            `json:"base_url"`
	Headers       map[string]string `json:"headers"`
	Timeout       string            `json:"timeout"`
	AfterResponse string            `json:"after_response_delay"`
	BeforeParse   string            `json:"before_parse_delay"`
	BetweenYears  string            `json:"between_years_delay"`
}

func DefaultSettings() Settings {
	cfg := DefaultClientConfig()
	delays := DefaultDelayPolicy()
	return Settings{
		BaseURL:       cfg.BaseURL,
		Headers:       cfg.Headers,
		Timeout:       cfg.Timeout.String(),
		AfterResponse: delays.AfterResponse.String(),
		BeforeParse:   delays.BeforeParse.String(),
		BetweenYears:  delays.BetweenYears.String(),
	}
}

// LoadSettings reads name (and its .local override) on top of the defaults.
// A missing file is not an error.
func LoadSettings(name string) (Settings, error) {
	return config.Load(name, DefaultSettings())
}

// ClientConfig converts the settings into a client configuration.
func (s Settings) ClientConfig() (ClientConfig, error) {
	timeout, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("invalid timeout: %w", err)
	}
	return ClientConfig{
		BaseURL: s.BaseURL,
		Headers: s.Headers,
		Timeout: timeout,
	}, nil
}

// DelayPolicy converts the settings into a delay policy.
func (s Settings) DelayPolicy() (DelayPolicy, error) {
	var p DelayPolicy
	for _, d := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"after_response_delay", s.AfterResponse, &p.AfterResponse},
		{"before_parse_delay", s.BeforeParse, &p.BeforeParse},
		{"between_years_delay", s.BetweenYears, &p.BetweenYears},
	} {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return DelayPolicy{}, fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = v
	}
	return p, nil
}
