// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the batch config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// DateLayout is the format expected for loan start dates.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for a batch calculator run.
type Configuration struct {
	Logging     LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output      OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
	Loans       []Loan        `yaml:"loans,omitempty" mapstructure:"loans"`
	Investments []Investment  `yaml:"investments,omitempty" mapstructure:"investments"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputfile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r,
// such as an uploaded file.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Entries that fail to parse are reported as warnings too;
// computing them later returns the underlying error.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, fmt.Sprintf("Output format is invalid: %v", err))
		}
	}
	if len(c.Loans) == 0 && len(c.Investments) == 0 {
		warnings = append(warnings, "Configuration defines no loans and no investments")
	}

	loanNames := make([]string, 0, len(c.Loans))
	for i, loan := range c.Loans {
		name := loan.DisplayName(i)
		loanNames = append(loanNames, name)

		params, err := loan.Params()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' is invalid: %v", name, err))
			continue
		}
		warnings = append(warnings, validation.LoanWarnings(name, params)...)
	}
	warnings = append(warnings, validation.DuplicateNames("Loan", loanNames)...)

	investmentNames := make([]string, 0, len(c.Investments))
	for i, investment := range c.Investments {
		name := investment.DisplayName(i)
		investmentNames = append(investmentNames, name)

		params, err := investment.Params()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Investment '%s' is invalid: %v", name, err))
			continue
		}
		warnings = append(warnings, validation.InvestmentWarnings(name, params, RealRate(params))...)
	}
	warnings = append(warnings, validation.DuplicateNames("Investment", investmentNames)...)

	return warnings
}
