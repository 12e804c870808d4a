// Package constants provides shared constants for the finance-calculator application.
package constants

// DateLayout is the format expected for calendar dates in config files and
// request payloads.
const DateLayout = "2006-01-02"

// ScheduleDateLayout is the MM/YY format used when rendering schedule dates.
const ScheduleDateLayout = "01/06"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is the number of compounding periods used for daily compounding
	DaysPerYear = 365

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places kept for currency amounts
	CurrencyPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultInflationRate is the inflation assumption, in percent, used when
	// none is supplied.
	DefaultInflationRate = 2.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variables that override server settings
	EnvPrefix = "FINCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRateLimitCapacity is the number of requests a client may issue per refill window
	DefaultRateLimitCapacity = 60

	// DefaultRateLimitRefill is the refill window for the rate limiter
	DefaultRateLimitRefill = "1m"

	// DefaultCacheTTL is how long computed schedules stay cached
	DefaultCacheTTL = "10m"

	// DefaultServiceName is the service name reported to the tracing backend
	DefaultServiceName = "finance-calculator"
)

// Input limits applied at the request boundary
const (
	// MaxTermYears is the longest term accepted for a loan or investment
	MaxTermYears = 100

	// MaxRatePercent is the largest nominal or inflation rate accepted, in percent
	MaxRatePercent = 1000.0
)
