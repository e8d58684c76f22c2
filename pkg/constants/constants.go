// Package constants provides shared constants for the accounted4 loan-term front end.
package constants

// DateLayout is the wire format for dates sent to the calculation service
// and the format accepted from form input.
const DateLayout = "2006-01-02"

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MidMonthDay is the day of month used as the mid-month adjustment point
	MidMonthDay = 15
)

// Form limits
const (
	// MaxTermInMonths caps the loan term at 30 years
	MaxTermInMonths = 12 * 30

	// MaxAmortizationYears caps the amortization period
	MaxAmortizationYears = 30

	// MaxInterestRate is the largest selectable annual rate, in percent
	MaxInterestRate = 25.0

	// InterestRateStep is the increment used by rate inputs
	InterestRateStep = 0.25
)

// Form defaults
const (
	DefaultTermInMonths       = 12
	DefaultInterestOnly       = true
	DefaultAmortizationYears  = 20
	DefaultAmortizationMonths = 0
	DefaultCompoundingPeriod  = "semi-annually"
	DefaultLoanAmount         = "20000"
	DefaultInterestRate       = 10.0

	// UnsetRegularPayment is what the service receives when no regular
	// payment was entered.
	UnsetRegularPayment = "0"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Calculation service defaults
const (
	// DefaultServiceBaseURL is where the mid-tier listens in a local deployment
	DefaultServiceBaseURL = "http://localhost:8084/accounted4-midtier"

	// DefaultServiceTimeoutSeconds bounds a single call to the mid-tier
	DefaultServiceTimeoutSeconds = 10
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
