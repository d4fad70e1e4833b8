package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ktkar/maintron/internal/flagx"
)

// JsonConfig is the intermediate DTO for reading a JSON configuration file.
// After unmarshalling, its fields are copied into the runtime Config.
// Only fields present in the file override the current values.
type JsonConfig struct {
	EndpointAddr          *string `json:"endpoint_addr"`
	DatabaseDSN           *string `json:"database_dsn"`
	SecretKey             *string `json:"secret_key"`
	TokenValidityMinutes  *int    `json:"token_validity_minutes"`
	RazorpayKeyID         *string `json:"razorpay_key_id"`
	RazorpayKeySecret     *string `json:"razorpay_key_secret"`
	RazorpayBaseURL       *string `json:"razorpay_base_url"`
	AllowedOrigin         *string `json:"allowed_origin"`
	DBConnectMaxRetries   *int    `json:"db_connect_max_retries"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flags. If neither flag is set, no file is loaded. An
// unreadable or malformed file panics: the process should not come up
// half-configured.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.TokenValidityMinutes != nil {
		config.TokenValidityDuration = time.Duration(*c.TokenValidityMinutes) * time.Minute
	}
	if c.RazorpayKeyID != nil {
		config.RazorpayKeyID = *c.RazorpayKeyID
	}
	if c.RazorpayKeySecret != nil {
		config.RazorpayKeySecret = *c.RazorpayKeySecret
	}
	if c.RazorpayBaseURL != nil {
		config.RazorpayBaseURL = *c.RazorpayBaseURL
	}
	if c.AllowedOrigin != nil {
		config.AllowedOrigin = *c.AllowedOrigin
	}
	if c.DBConnectMaxRetries != nil {
		config.DBConnectMaxRetries = *c.DBConnectMaxRetries
	}
}
