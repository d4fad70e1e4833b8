package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Unset
// variables leave the current value untouched.
//
// Recognized variables:
//
//	ADDRESS                 HTTP bind address
//	DATABASE_DSN            PostgreSQL DSN
//	JWT_SECRET              token signing secret
//	TOKEN_VALIDITY          session token lifetime, minutes
//	RAZORPAY_KEY_ID         gateway key id
//	RAZORPAY_KEY_SECRET     gateway key secret
//	RAZORPAY_BASE_URL       gateway API endpoint
//	ALLOWED_ORIGIN          origin allowed for CORS
//	DB_CONNECT_MAX_RETRIES  startup connection attempt budget
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if minutes, err := strconv.Atoi(v); err == nil {
			config.TokenValidityDuration = time.Duration(minutes) * time.Minute
		}
	}
	if v, ok := os.LookupEnv("RAZORPAY_KEY_ID"); ok {
		config.RazorpayKeyID = v
	}
	if v, ok := os.LookupEnv("RAZORPAY_KEY_SECRET"); ok {
		config.RazorpayKeySecret = v
	}
	if v, ok := os.LookupEnv("RAZORPAY_BASE_URL"); ok {
		config.RazorpayBaseURL = v
	}
	if v, ok := os.LookupEnv("ALLOWED_ORIGIN"); ok {
		config.AllowedOrigin = v
	}
	if v, ok := os.LookupEnv("DB_CONNECT_MAX_RETRIES"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.DBConnectMaxRetries = n
		}
	}
}
