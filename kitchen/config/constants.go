package config

import "time"

// Application-wide constants organized by domain

// UI and Display Constants
const (
	// Pagination
	DefaultPageSize = 5
	MaxPageSize     = 50

	// Suggestions shown when a list filter matches nothing
	MaxSuggestions = 5
)

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 10 * time.Second
	StatsQueryTimeout   = 5 * time.Second
	SchemaTimeout       = 30 * time.Second
	ShutdownTimeout     = 15 * time.Second
	NetworkDialTimeout  = 5 * time.Second

	// Connection retries
	DefaultMaxRetries    = 3
	DefaultRetryInterval = time.Second
)

// Account Constants
const (
	// Bounds for a cook's years of experience, inclusive
	MinYearsOfExperience = 0
	MaxYearsOfExperience = 50

	MaxUsernameLength = 150
	MaxNameLength     = 150
	MaxTitleLength    = 255
	MinPasswordLength = 8

	// Prices are stored as numeric(8,2)
	PriceMaxDigits     = 8
	PriceDecimalPlaces = 2

	// bcrypt.DefaultCost
	BcryptCost = 10

	DefaultSessionHours = 24 * 14
	MinSessionKeyLength = 32

	// Login attempts allowed per client within LoginRateWindow
	DefaultLoginRateLimit = 10
	LoginRateWindow       = time.Minute
	RateLimiterSize       = 4096
)
