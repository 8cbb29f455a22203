// Package ratelimit provides fixed-window request limiting keyed by client
// and endpoint class. A Redis-backed limiter is used when Redis is available,
// with an in-memory fallback for single-instance deployments.
package ratelimit

import "time"

type Limit struct {
	Requests int
	Window   time.Duration
}

// Limiter decides whether a client may proceed. retryAfter is meaningful only
// when allowed is false.
type Limiter interface {
	Allow(clientID, endpoint string) (allowed bool, retryAfter time.Duration, err error)
	LimitFor(endpoint string) Limit
}

// Endpoint classes. Auth endpoints are kept tight to slow down credential
// stuffing; uploads are bounded by disk churn.
const (
	EndpointAuth    = "auth"
	EndpointUpload  = "upload"
	EndpointDefault = "default"
)

func DefaultLimits() map[string]Limit {
	return map[string]Limit{
		EndpointAuth:    {Requests: 10, Window: time.Minute},
		EndpointUpload:  {Requests: 20, Window: time.Minute},
		EndpointDefault: {Requests: 120, Window: time.Minute},
	}
}

func limitFor(limits map[string]Limit, endpoint string) Limit {
	if l, ok := limits[endpoint]; ok {
		return l
	}
	return limits[EndpointDefault]
}
