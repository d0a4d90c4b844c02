// Package config gathers run settings from defaults, an optional config
// file, AXIOMFP_* environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/carbocation/axiomfp"
	"github.com/carbocation/axiomfp/histplot"
	"github.com/carbocation/axiomfp/snpfilter"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "AXIOMFP"

// Config holds everything one run needs.
type Config struct {
	SNPStat      string `mapstructure:"snp_stat" yaml:"snp_stat"`
	SNPCCP       string `mapstructure:"snp_ccp" yaml:"snp_ccp"`
	OutputFolder string `mapstructure:"output_folder" yaml:"output_folder"`

	NNC   int     `mapstructure:"nnc" yaml:"nnc"`
	ABMin float64 `mapstructure:"ab_min" yaml:"ab_min"`
	ABMax float64 `mapstructure:"ab_max" yaml:"ab_max"`

	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	CCPSkip   int    `mapstructure:"ccp_skip" yaml:"ccp_skip"`

	Bins   int     `mapstructure:"bins" yaml:"bins"`
	DPI    float64 `mapstructure:"dpi" yaml:"dpi"`
	Width  int     `mapstructure:"width" yaml:"width"`
	Height int     `mapstructure:"height" yaml:"height"`

	NoSummary bool `mapstructure:"no_summary" yaml:"no_summary"`
	Verbose   bool `mapstructure:"verbose" yaml:"verbose"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	fp := snpfilter.DefaultParams()
	hp := histplot.DefaultOptions()

	// Registered so AXIOMFP_SNP_STAT and friends are picked up.
	v.SetDefault("snp_stat", "")
	v.SetDefault("snp_ccp", "")
	v.SetDefault("output_folder", "")

	v.SetDefault("nnc", int(fp.CutoffNNC))
	v.SetDefault("ab_min", fp.ABMin)
	v.SetDefault("ab_max", fp.ABMax)
	v.SetDefault("delimiter", "tab")
	v.SetDefault("ccp_skip", 5)
	v.SetDefault("bins", hp.Bins)
	v.SetDefault("dpi", hp.DPI)
	v.SetDefault("width", hp.Width)
	v.SetDefault("height", hp.Height)
	v.SetDefault("no_summary", false)
	v.SetDefault("verbose", false)
}

// New returns a viper instance with defaults and environment overrides
// wired up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads cfgFile, if given, into v and decodes the merged settings.
// Precedence: values set on v (flags, positional args) > env > config file >
// defaults.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		path, err := axiomfp.ExpandHome(cfgFile)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	for _, p := range []*string{&c.SNPStat, &c.SNPCCP, &c.OutputFolder} {
		expanded, err := axiomfp.ExpandHome(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}

	return &c, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	switch {
	case c.SNPStat == "":
		return fmt.Errorf("the SNP statistics file is required")
	case c.SNPCCP == "":
		return fmt.Errorf("the SNP call contrast positions file is required")
	case c.OutputFolder == "":
		return fmt.Errorf("the output folder is required")
	case c.Bins < 1:
		return fmt.Errorf("bins must be at least 1, got %d", c.Bins)
	case c.DPI <= 0:
		return fmt.Errorf("dpi must be positive, got %g", c.DPI)
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	case c.ABMin > c.ABMax:
		return fmt.Errorf("ab-min (%g) is greater than ab-max (%g)", c.ABMin, c.ABMax)
	case c.CCPSkip < 0:
		return fmt.Errorf("ccp-skip cannot be negative, got %d", c.CCPSkip)
	}

	if _, err := c.DelimiterRune(); err != nil {
		return err
	}

	return nil
}

// DelimiterRune interprets the delimiter setting. Zero means auto-detect.
func (c Config) DelimiterRune() (rune, error) {
	switch strings.ToLower(c.Delimiter) {
	case "", "tab", `\t`, "\t":
		return '\t', nil
	case "auto":
		return 0, nil
	case "comma":
		return ',', nil
	}

	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, \"tab\", \"comma\" or \"auto\", got %q", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r, nil
}

// FilterParams are the thresholds for snpfilter.Chain.
func (c Config) FilterParams() snpfilter.Params {
	return snpfilter.Params{
		CutoffNNC: float64(c.NNC),
		ABMin:     c.ABMin,
		ABMax:     c.ABMax,
	}
}

// PlotOptions are the drawing settings for histplot.
func (c Config) PlotOptions() histplot.Options {
	opts := histplot.DefaultOptions()
	opts.Bins = c.Bins
	opts.DPI = c.DPI
	opts.Width = c.Width
	opts.Height = c.Height
	return opts
}
