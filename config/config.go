// Package config loads the layered configuration: a built-in default
// map merged with every YAML file found
// in a user config directory, deep-merging nested maps exactly the way
// a later file's keys overlay an earlier one's without discarding
// unrelated siblings.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	strongmotion "github.com/smcore/go-strongmotion"
)

// Config is the decoded, validated top-level configuration.
type Config struct {
	User struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"user"`

	Read ReadConfig `yaml:"read"`

	Windows WindowsConfig `yaml:"windows"`

	Processing []ProcessingStep `yaml:"processing"`

	Colocated struct {
		Preference []string `yaml:"preference"`
	} `yaml:"colocated"`

	Duplicate DuplicateConfig `yaml:"duplicate"`

	Metrics MetricsConfig `yaml:"metrics"`

	Pickers PickersConfig `yaml:"pickers"`

	// Fetchers are recognized but left as raw maps; fetcher behavior is
	// out of scope.
	Fetchers map[string]map[string]any `yaml:"fetchers"`
}

type ReadConfig struct {
	MetadataDirectory   string   `yaml:"metadata_directory"`
	ResampleRate        float64  `yaml:"resample_rate"`
	SacConversionFactor float64  `yaml:"sac_conversion_factor"`
	SacSource           string   `yaml:"sac_source"`
	UseStreamCollection bool     `yaml:"use_streamcollection"`
	ExcludePatterns     []string `yaml:"exclude_patterns"`
}

type WindowsConfig struct {
	SignalEnd struct {
		Method  string  `yaml:"method"`
		Vmin    float64 `yaml:"vmin"`
		Floor   float64 `yaml:"floor"`
		Model   string  `yaml:"model"`
		Epsilon float64 `yaml:"epsilon"`
	} `yaml:"signal_end"`
	WindowChecks struct {
		Enabled            bool    `yaml:"enabled"`
		MinNoiseDuration   float64 `yaml:"min_noise_duration"`
		MinSignalDuration  float64 `yaml:"min_signal_duration"`
	} `yaml:"window_checks"`
}

// ProcessingStep is one entry of the ordered pipeline: a single
// "step_name: {args...}" map decoded generically since the set of
// valid steps and their argument shapes is owned by the step registry,
// not this package.
type ProcessingStep struct {
	Name string
	Args map[string]any
}

// UnmarshalYAML decodes a ProcessingStep from its single-key map form,
// `{step_name: {args...}}`.
func (p *ProcessingStep) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]map[string]any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return strongmotion.NewClassifiedError(strongmotion.ClassConfig, "config.ProcessingStep", strongmotion.ErrUnknownStep)
	}
	for name, args := range raw {
		p.Name = name
		p.Args = args
	}
	return nil
}

type DuplicateConfig struct {
	MaxDistTolerance        float64  `yaml:"max_dist_tolerance"`
	PreferenceOrder         []string `yaml:"preference_order"`
	ProcessLevelPreference  []string `yaml:"process_level_preference"`
	FormatPreference        []string `yaml:"format_preference"`
}

type PeriodsConfig struct {
	Start         float64  `yaml:"start"`
	Stop          float64  `yaml:"stop"`
	Num           int      `yaml:"num"`
	Spacing       string   `yaml:"spacing"`
	UseArray      bool     `yaml:"use_array"`
	DefinedPeriods []float64 `yaml:"defined_periods"`
}

type MetricsConfig struct {
	OutputIMCs       []string `yaml:"output_imcs"`
	OutputIMTs       []string `yaml:"output_imts"`
	RotDPercentile   float64  `yaml:"rotd_percentile"`
	GMRotDPercentile float64  `yaml:"gmrotd_percentile"`
	SA               struct {
		Damping float64       `yaml:"damping"`
		Periods PeriodsConfig `yaml:"periods"`
	} `yaml:"sa"`
	FAS struct {
		Smoothing string        `yaml:"smoothing"`
		Bandwidth float64       `yaml:"bandwidth"`
		AllowNaNs bool          `yaml:"allow_nans"`
		Periods   PeriodsConfig `yaml:"periods"`
	} `yaml:"fas"`
	Duration struct {
		Intervals []string `yaml:"intervals"`
	} `yaml:"duration"`
	Vs30 map[string]Vs30Config `yaml:"vs30"`
}

type Vs30Config struct {
	File         string `yaml:"file"`
	ColumnHeader string `yaml:"column_header"`
	ReadmeEntry  string `yaml:"readme_entry"`
	Units        string `yaml:"units"`
}

type PickersConfig struct {
	PArrivalShift float64 `yaml:"p_arrival_shift"`
	TravelTime    map[string]any `yaml:"travel_time"`
	AR            map[string]any `yaml:"ar"`
	StaLta        map[string]any `yaml:"stalta"`
}

// Load builds a Config by deep-merging defaultYAML (the built-in
// default document) with every .yaml/.yml file in configDir, in
// lexical filename order (files with other extensions are skipped),
// then decoding the merged map into a typed
// Config and validating it.
func Load(defaultYAML []byte, configDir string) (*Config, error) {
	merged := map[string]any{}
	if len(defaultYAML) > 0 {
		var defaults map[string]any
		if err := yaml.Unmarshal(defaultYAML, &defaults); err != nil {
			return nil, strongmotion.NewClassifiedError(strongmotion.ClassConfig, "config.Load", err)
		}
		merged = defaults
	}

	if configDir != "" {
		entries, err := os.ReadDir(configDir)
		if err != nil {
			return nil, strongmotion.NewClassifiedError(strongmotion.ClassConfig, "config.Load", err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			if !isYAMLFile(name) {
				continue
			}
			data, err := os.ReadFile(filepath.Join(configDir, name))
			if err != nil {
				return nil, strongmotion.NewClassifiedError(strongmotion.ClassConfig, "config.Load", err)
			}
			var layer map[string]any
			if err := yaml.Unmarshal(data, &layer); err != nil {
				return nil, strongmotion.NewClassifiedError(strongmotion.ClassConfig, "config.Load", err)
			}
			merged = deepMerge(merged, layer)
		}
	}

	remarshaled, err := yaml.Marshal(merged)
	if err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassConfig, "config.Load", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(remarshaled, &cfg); err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassConfig, "config.Load", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// deepMerge overlays override onto base, recursing into nested maps
// and replacing any other value (scalars, slices) outright.
func deepMerge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if baseVal, ok := out[k]; ok {
			baseMap, baseIsMap := asStringMap(baseVal)
			overrideMap, overrideIsMap := asStringMap(v)
			if baseIsMap && overrideIsMap {
				out[k] = deepMerge(baseMap, overrideMap)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// asStringMap normalizes the two shapes yaml.v2 produces for mapping
// nodes (map[string]any for already-typed layers, map[any]any for
// freshly decoded ones) into a single map[string]any.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func validate(cfg *Config) error {
	for _, step := range cfg.Processing {
		if step.Name == "" {
			return strongmotion.NewClassifiedError(strongmotion.ClassConfig, "config.validate", strongmotion.ErrUnknownStep)
		}
	}
	if cfg.Metrics.SA.Periods.Num < 0 {
		return strongmotion.NewClassifiedError(strongmotion.ClassConfig, "config.validate", strongmotion.ErrInvalidEnum)
	}
	return nil
}
