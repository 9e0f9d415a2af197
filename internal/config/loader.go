package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional configuration file to
// produce a Config. Flags override file settings. The result still needs
// Validate.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Count:      unsetCount,
		ConfigFile: configPath,
		Tracing: TracingConfig{
			Protocol:   "grpc",
			SampleRate: 1.0,
		},
	}

	if err := applyConfigSettings(cfg, cfgViper.AllSettings()); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	cfg.TargetURL = strings.TrimSpace(cfg.TargetURL)
	cfg.DataPath = strings.TrimSpace(cfg.DataPath)

	return cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "threads"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("threads: %w", err)
		}
		cfg.Threads = val
	}

	if raw, ok := lookupSetting(settings, "count"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		cfg.Count = val
	}

	if raw, ok := lookupSetting(settings, "url", "target"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("url: %w", err)
		}
		cfg.TargetURL = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "method"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("method: %w", err)
		}
		cfg.Method = val
	}

	stringSettings := []struct {
		dst  *string
		keys []string
	}{
		{&cfg.DataPath, []string{"datapath", "data_path", "data-path"}},
		{&cfg.ExpectedPath, []string{"expectedpath", "expected_path", "expected-path"}},
		{&cfg.JSONSubsetPath, []string{"jsonsubsetvalidation", "json_subset_validation", "json-subset-validation"}},
		{&cfg.RequestDelay, []string{"requestdelay", "request_delay", "request-delay"}},
		{&cfg.CAFile, []string{"cafile", "ca_file", "ca-file"}},
		{&cfg.HTMLOutput, []string{"htmloutput", "html_output", "html-output"}},
	}
	for _, s := range stringSettings {
		raw, ok := lookupSetting(settings, s.keys...)
		if !ok {
			continue
		}
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", s.keys[1], err)
		}
		*s.dst = strings.TrimSpace(val)
	}

	boolSettings := []struct {
		dst  *bool
		keys []string
	}{
		{&cfg.ResponseCodeValidation, []string{"responsecodevalidation", "response_code_validation", "response-code-validation"}},
		{&cfg.ResponseDataValidation, []string{"responsedatavalidation", "response_data_validation", "response-data-validation"}},
		{&cfg.SSLEnabled, []string{"sslenabled", "ssl_enabled", "ssl-enabled"}},
		{&cfg.JSONOutput, []string{"jsonoutput", "json_output", "json-output"}},
		{&cfg.YAMLOutput, []string{"yamloutput", "yaml_output", "yaml-output"}},
		{&cfg.LogErrors, []string{"logerrors", "log_errors", "log-errors"}},
	}
	for _, b := range boolSettings {
		raw, ok := lookupSetting(settings, b.keys...)
		if !ok {
			continue
		}
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", b.keys[1], err)
		}
		*b.dst = val
	}

	if raw, ok := lookupSetting(settings, "timeout"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = dur
	}

	if raw, ok := lookupSetting(settings, "thresholds"); ok {
		thresholds, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
		cfg.Thresholds = thresholds
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		if err := applyTracingSettings(&cfg.Tracing, raw); err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}

	return nil
}

func applyTracingSettings(t *TracingConfig, raw interface{}) error {
	settings, err := toStringKeyMap(raw)
	if err != nil {
		return err
	}
	if v, ok := lookupSetting(settings, "endpoint"); ok {
		s, err := asString(v)
		if err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
		t.Endpoint = strings.TrimSpace(s)
	}
	if v, ok := lookupSetting(settings, "protocol"); ok {
		s, err := asString(v)
		if err != nil {
			return fmt.Errorf("protocol: %w", err)
		}
		t.Protocol = strings.ToLower(strings.TrimSpace(s))
	}
	if v, ok := lookupSetting(settings, "servicename", "service_name", "service-name"); ok {
		s, err := asString(v)
		if err != nil {
			return fmt.Errorf("service_name: %w", err)
		}
		t.ServiceName = strings.TrimSpace(s)
	}
	if v, ok := lookupSetting(settings, "samplerate", "sample_rate", "sample-rate"); ok {
		f, err := asFloat64(v)
		if err != nil {
			return fmt.Errorf("sample_rate: %w", err)
		}
		t.SampleRate = f
	}
	if v, ok := lookupSetting(settings, "insecure"); ok {
		b, err := asBool(v)
		if err != nil {
			return fmt.Errorf("insecure: %w", err)
		}
		t.Insecure = b
	}
	if v, ok := lookupSetting(settings, "propagate"); ok {
		b, err := asBool(v)
		if err != nil {
			return fmt.Errorf("propagate: %w", err)
		}
		t.Propagate = &b
	}
	return nil
}
