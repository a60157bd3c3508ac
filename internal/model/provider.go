package model

import "time"

// ProviderConfig is the configuration handed to a hosting dialect at
// construction time.
type ProviderConfig struct {
	BaseURL        string
	Token          string
	RequestTimeout time.Duration
	PageSize       int
}
