package config

import (
	"strconv"
	"time"
)

// ResourceConfig describes the resource server the dispatcher talks to, plus
// the pre-shared API key pair used when no OAuth2 client is configured.
type ResourceConfig interface {
	GetResourceBaseURL() string
	GetAPIKey() string
	GetAPISecret() string
	GetRequestTimeout() time.Duration
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
}

type Resource struct{}

var _ ResourceConfig = Resource{}

func (Resource) GetResourceBaseURL() string {
	return GetEnv("RESOURCE_BASE_URL", "http://localhost:8000")
}

func (Resource) GetAPIKey() string {
	return GetEnv("API_KEY", "")
}

func (Resource) GetAPISecret() string {
	return GetEnv("API_SECRET", "")
}

func (Resource) GetRequestTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv("REQUEST_TIMEOUT_SECONDS", "30"))
	if err != nil || seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

func (Resource) GetRateLimitPerSecond() float64 {
	rps, err := strconv.ParseFloat(GetEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil || rps <= 0 {
		rps = 10
	}
	return rps
}

func (Resource) GetRateLimitBurst() int {
	burst, err := strconv.Atoi(GetEnv("RATE_LIMIT_BURST", "20"))
	if err != nil || burst <= 0 {
		burst = 20
	}
	return burst
}
