package config

import "time"

type Security struct{}

var _ SecurityConfig = Security{}

// GetTokenCookieName is the cookie the route guard reads.
func (Security) GetTokenCookieName() string {
	return GetEnv("TOKEN_COOKIE_NAME", "access_token")
}

func (Security) GetTokenCookieMaxAge() time.Duration {
	return GetDuration("TOKEN_COOKIE_MAX_AGE", 24*time.Hour)
}

func (Security) GetDeviceCookieName() string {
	return GetEnv("DEVICE_COOKIE_NAME", "device_id")
}

// GetViewTTL bounds how long a mounted dashboard view is kept for a device.
func (Security) GetViewTTL() time.Duration {
	return GetDuration("VIEW_TTL", 30*time.Minute)
}
