package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"bimile/internal/core"
	"bimile/internal/encode"
	"bimile/internal/pipeline"
	"bimile/internal/render"
	"bimile/internal/sims/traffic"
)

// ErrUnknownSetting is returned by Set for a key no Config field answers to.
var ErrUnknownSetting = errors.New("unknown setting")

// Config holds every value the bimile commands consume. It can be read from a
// YAML file and overridden by command-line flags.
type Config struct {
	Sim traffic.Config `yaml:",inline"`

	Steps     int `yaml:"steps" validate:"min=1"`
	FrameSkip int `yaml:"frame_skip" validate:"min=1"`
	CellSize  int `yaml:"cell_size" validate:"min=1"`
	Workers   int `yaml:"workers" validate:"min=1"`
	Delay     int `yaml:"delay" validate:"min=0"`

	Output     string `yaml:"output" validate:"required"`
	DownColor  string `yaml:"down_color" validate:"hexcolor"`
	RightColor string `yaml:"right_color" validate:"hexcolor"`

	MetricsFile string `yaml:"metrics_file"`
	Trace       string `yaml:"trace" validate:"oneof=none stdout"`
	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string `yaml:"log_format" validate:"oneof=text json"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	pal := render.DefaultPalette()
	return &Config{
		Sim:        traffic.DefaultConfig(),
		Steps:      100,
		FrameSkip:  1,
		CellSize:   1,
		Workers:    pipeline.DefaultWorkers,
		Delay:      encode.DefaultDelay,
		Output:     "bml.gif",
		DownColor:  render.HexColor(pal.Down),
		RightColor: render.HexColor(pal.Right),
		Trace:      "none",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.IntVar(&c.Sim.Scale, "scale", c.Sim.Scale, "height and width of the grid in cells")
	fs.Float64Var(&c.Sim.Density, "density", c.Sim.Density, "fraction of occupied cells (0.0 - 1.0)")
	fs.Int64Var(&c.Sim.Seed, "seed", c.Sim.Seed, "seed for the initial grid")
	fs.IntVar(&c.Steps, "steps", c.Steps, "number of recorded snapshots")
	fs.IntVar(&c.FrameSkip, "frame-skip", c.FrameSkip, "logical steps between snapshots")
	fs.IntVar(&c.CellSize, "cell-size", c.CellSize, "pixels per cell")
	fs.IntVar(&c.Workers, "workers", c.Workers, "render worker count")
	fs.IntVar(&c.Delay, "delay", c.Delay, "frame delay in hundredths of a second")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "output GIF path")
	fs.StringVar(&c.DownColor, "down-color", c.DownColor, "colour of downward cars (#rrggbb)")
	fs.StringVar(&c.RightColor, "right-color", c.RightColor, "colour of rightward cars (#rrggbb)")
	fs.StringVar(&c.MetricsFile, "metrics-file", c.MetricsFile, "write Prometheus metrics to this file on exit")
	fs.StringVar(&c.Trace, "trace", c.Trace, "trace exporter: none or stdout")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
}

// Set assigns a single value by flag name.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "scale":
		c.Sim.Scale, err = strconv.Atoi(value)
	case "density":
		c.Sim.Density, err = strconv.ParseFloat(value, 64)
	case "seed":
		c.Sim.Seed, err = strconv.ParseInt(value, 10, 64)
	case "steps":
		c.Steps, err = strconv.Atoi(value)
	case "frame-skip":
		c.FrameSkip, err = strconv.Atoi(value)
	case "cell-size":
		c.CellSize, err = strconv.Atoi(value)
	case "workers":
		c.Workers, err = strconv.Atoi(value)
	case "delay":
		c.Delay, err = strconv.Atoi(value)
	case "output":
		c.Output = value
	case "down-color":
		c.DownColor = value
	case "right-color":
		c.RightColor = value
	case "metrics-file":
		c.MetricsFile = value
	case "trace":
		c.Trace = value
	case "log-level":
		c.LogLevel = value
	case "log-format":
		c.LogFormat = value
	default:
		return fmt.Errorf("%w %q", ErrUnknownSetting, key)
	}
	if err != nil {
		return core.NewConfigError(key, value, err.Error())
	}
	return nil
}

// LoadFile reads a YAML configuration on top of the defaults. Unknown keys are
// rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := NewConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge loads path and re-applies every flag explicitly set in fs, so flags
// take precedence over the file.
func Merge(path string, fs *pflag.FlagSet) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	var setErr error
	fs.Visit(func(f *pflag.Flag) {
		if setErr != nil || f.Name == "config" {
			return
		}
		if err := cfg.Set(f.Name, f.Value.String()); err != nil && !errors.Is(err, ErrUnknownSetting) {
			setErr = err
		}
	})
	if setErr != nil {
		return nil, setErr
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field and reports all violations as ConfigErrors.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, core.NewConfigError(fe.Field(), fe.Value(), describe(fe)))
	}
	return errors.Join(errs...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "hexcolor":
		return "must be a #rrggbb colour"
	case "required":
		return "must be set"
	}
	return "failed " + fe.Tag()
}

// Palette parses the configured colours.
func (c *Config) Palette() (render.Palette, error) {
	down, err := render.ParseHexColor(c.DownColor)
	if err != nil {
		return render.Palette{}, core.NewConfigError("down_color", c.DownColor, err.Error())
	}
	right, err := render.ParseHexColor(c.RightColor)
	if err != nil {
		return render.Palette{}, core.NewConfigError("right_color", c.RightColor, err.Error())
	}
	return render.Palette{Down: down, Right: right}, nil
}
