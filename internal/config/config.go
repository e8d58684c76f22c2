// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gheinze-sandbox/accounted4/internal/loanterm"
	"github.com/gheinze-sandbox/accounted4/pkg/constants"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ACCOUNTED4_SERVICE_BASEURL.
const EnvPrefix = "ACCOUNTED4"

// Configuration holds all configuration for the loan-term front end.
type Configuration struct {
	Service ServiceConfig `yaml:"service"`
	Form    FormConfig    `yaml:"form"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// ServiceConfig locates the remote amortization service.
type ServiceConfig struct {
	BaseURL    string        `yaml:"baseURL"`
	Timeout    time.Duration `yaml:"timeout"`
	RetryCount int           `yaml:"retryCount"` // 0 disables retries
	Debug      bool          `yaml:"debug,omitempty"`
}

// FormConfig holds the initial values of a new loan-term form.
type FormConfig struct {
	TermInMonths       int     `yaml:"termInMonths"`
	InterestOnly       bool    `yaml:"interestOnly"`
	AmortizationYears  int     `yaml:"amortizationYears"`
	AmortizationMonths int     `yaml:"amortizationMonths"`
	CompoundingPeriod  string  `yaml:"compoundingPeriod"`
	LoanAmount         string  `yaml:"loanAmount"`
	InterestRate       float64 `yaml:"interestRate"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// DefaultServiceConfig returns the service settings used when nothing is
// configured.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		BaseURL: constants.DefaultServiceBaseURL,
		Timeout: constants.DefaultServiceTimeoutSeconds * time.Second,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	service := DefaultServiceConfig()
	v.SetDefault("service.baseURL", service.BaseURL)
	v.SetDefault("service.timeout", service.Timeout)
	v.SetDefault("service.retryCount", service.RetryCount)
	v.SetDefault("service.debug", service.Debug)

	defaults := loanterm.StandardDefaults()
	v.SetDefault("form.termInMonths", defaults.TermInMonths)
	v.SetDefault("form.interestOnly", defaults.InterestOnly)
	v.SetDefault("form.amortizationYears", defaults.AmortizationYears)
	v.SetDefault("form.amortizationMonths", defaults.AmortizationMonths)
	v.SetDefault("form.compoundingPeriod", defaults.CompoundingPeriod.String())
	v.SetDefault("form.loanAmount", defaults.LoanAmount.String())
	v.SetDefault("form.interestRate", defaults.InterestRate)

	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

// DefaultConfiguration returns the configuration used when no file exists.
func DefaultConfiguration() (*Configuration, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Defaults converts the form section into loan-term defaults.
func (f FormConfig) Defaults() (loanterm.Defaults, error) {
	period, err := loanterm.ParseCompoundingPeriod(f.CompoundingPeriod)
	if err != nil {
		return loanterm.Defaults{}, fmt.Errorf("form.compoundingPeriod: %w", err)
	}

	return loanterm.Defaults{
		TermInMonths:       f.TermInMonths,
		InterestOnly:       f.InterestOnly,
		AmortizationYears:  f.AmortizationYears,
		AmortizationMonths: f.AmortizationMonths,
		CompoundingPeriod:  period,
		LoanAmount:         loanterm.Amount(strings.TrimSpace(f.LoanAmount)),
		InterestRate:       f.InterestRate,
	}, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if u, err := url.Parse(c.Service.BaseURL); err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		warnings = append(warnings, fmt.Sprintf("service.baseURL %q is not an absolute http(s) URL", c.Service.BaseURL))
	}
	if c.Service.Timeout <= 0 {
		warnings = append(warnings, "service.timeout is not positive; calls to the amortization service will not time out")
	}
	if c.Service.RetryCount > 0 {
		warnings = append(warnings, fmt.Sprintf("service.retryCount is %d; failed submissions will be resent", c.Service.RetryCount))
	}

	f := c.Form
	if f.TermInMonths < 1 || f.TermInMonths > constants.MaxTermInMonths {
		warnings = append(warnings, fmt.Sprintf("form.termInMonths %d is outside 1-%d", f.TermInMonths, constants.MaxTermInMonths))
	}
	if f.AmortizationYears < 0 || f.AmortizationYears > constants.MaxAmortizationYears {
		warnings = append(warnings, fmt.Sprintf("form.amortizationYears %d is outside 0-%d", f.AmortizationYears, constants.MaxAmortizationYears))
	}
	if f.AmortizationMonths < 0 || f.AmortizationMonths >= constants.MonthsPerYear {
		warnings = append(warnings, fmt.Sprintf("form.amortizationMonths %d is outside 0-11", f.AmortizationMonths))
	}
	if _, err := loanterm.ParseCompoundingPeriod(f.CompoundingPeriod); err != nil {
		warnings = append(warnings, fmt.Sprintf("form.compoundingPeriod %q is not one of monthly, semi-annually, annually", f.CompoundingPeriod))
	}
	if f.InterestRate < 0 || f.InterestRate > constants.MaxInterestRate {
		warnings = append(warnings, fmt.Sprintf("form.interestRate %.2f is outside 0-%.0f", f.InterestRate, constants.MaxInterestRate))
	}

	return warnings
}
