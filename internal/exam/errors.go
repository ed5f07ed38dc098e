package exam

import "errors"

var (
	// ErrConfiguration means the generative service credential is missing.
	ErrConfiguration = errors.New("generative service credential not configured")
	// ErrUpstreamBadRequest means the generative service rejected the request.
	ErrUpstreamBadRequest = errors.New("generative service rejected the request")
	// ErrUpstreamAuthOrQuota means the credential was refused or is out of quota.
	ErrUpstreamAuthOrQuota = errors.New("generative service credential refused or quota exceeded")
	// ErrUpstreamUnknown covers network faults, timeouts and unexpected payloads.
	ErrUpstreamUnknown = errors.New("generative service failed")
)
