package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/formatter"
	"github.com/rotolog/rotolog/handler"
	"github.com/rotolog/rotolog/handler/consolehandler"
	"github.com/rotolog/rotolog/handler/filehandler"
	"github.com/rotolog/rotolog/handler/multihandler"
	"github.com/rotolog/rotolog/logger"
)

// Format identifies a config file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config is the declarative logger description. Zero values fall back
// to the handler and logger defaults.
type Config struct {
	// Level names the minimum level: trace, debug, info, warn, error,
	// fatal or panic (default: info).
	Level string `koanf:"level"`
	// Caller captures and renders the call site on every entry.
	Caller bool `koanf:"caller"`
	// CoarseClock uses the cached clock for entry timestamps.
	CoarseClock bool `koanf:"coarse_clock"`
	// Fields are default string fields attached to every entry, in
	// key order.
	Fields map[string]string `koanf:"fields"`
	// Handlers lists the outputs. Empty builds a single sync console
	// handler.
	Handlers []HandlerConfig `koanf:"handlers"`
}

// HandlerConfig describes one output handler.
type HandlerConfig struct {
	// Type selects the handler: console (default) or file.
	Type string `koanf:"type"`
	// Format selects the formatter: text (default) or json.
	Format string `koanf:"format"`
	// TimestampFormat is a time layout string (empty selects the
	// formatter's default).
	TimestampFormat string `koanf:"timestamp_format"`
	// Async moves writes onto a background queue.
	Async bool `koanf:"async"`
	// BufferSize is the async queue capacity (default: 1000).
	BufferSize int `koanf:"buffer_size"`
	// Overflow applies one policy to all levels: drop_newest,
	// drop_oldest or block. Empty keeps the per-level defaults.
	Overflow string `koanf:"overflow"`
	// BlockTimeout bounds a blocked push, e.g. "100ms".
	BlockTimeout time.Duration `koanf:"block_timeout"`
	// DrainTimeout bounds the queue drain on close, e.g. "5s".
	DrainTimeout time.Duration `koanf:"drain_timeout"`

	// Path is the log file path. Required for file handlers.
	Path string `koanf:"path"`
	// MaxSize is the rotation threshold in bytes (0 = no size
	// rotation).
	MaxSize int64 `koanf:"max_size"`
	// MaxBackups is how many rotated files to keep.
	MaxBackups int `koanf:"max_backups"`
	// Daily rotates to a date-stamped file at the configured time.
	Daily bool `koanf:"daily"`
	// RotationHour and RotationMinute set the daily switch time.
	RotationHour   int `koanf:"rotation_hour"`
	RotationMinute int `koanf:"rotation_minute"`
	// DateOnly drops hour and minute from daily file names.
	DateOnly bool `koanf:"date_only"`
	// ForceFlush flushes to the OS after every record.
	ForceFlush bool `koanf:"force_flush"`
	// Truncate empties an existing file on open.
	Truncate bool `koanf:"truncate"`
}

// Parse reads and decodes a config file. The format is detected from
// the extension: .yaml, .yml or .json.
func Parse(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return ParseBytes(data, format)
}

// ParseBytes decodes config data in the given format. Empty data
// yields a default Config.
func ParseBytes(data []byte, format Format) (*Config, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return &cfg, nil
}

// Load builds a Logger from a config file.
func Load(path string) (*logger.Logger, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

// LoadBytes builds a Logger from config data in the given format.
func LoadBytes(data []byte, format Format) (*logger.Logger, error) {
	cfg, err := ParseBytes(data, format)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

// Build constructs the Logger the config describes. The caller owns
// the result and closes it when done.
func (c *Config) Build() (*logger.Logger, error) {
	specs := c.Handlers
	if len(specs) == 0 {
		specs = []HandlerConfig{{}}
	}

	handlers := make([]handler.Handler, 0, len(specs))
	for i, hc := range specs {
		h, err := buildHandler(hc, c.Caller)
		if err != nil {
			closeHandlers(handlers)
			return nil, fmt.Errorf("%w: handler %d: %w", ErrBuildFailed, i, err)
		}
		handlers = append(handlers, h)
	}

	var h handler.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = multihandler.NewMultiHandler(handlers...)
	}

	b := logger.NewBuilder().
		WithHandler(h).
		WithLevel(logger.ParseLevel(c.Level)).
		WithCaller(c.Caller).
		WithCoarseClock(c.CoarseClock)

	if len(c.Fields) > 0 {
		keys := make([]string, 0, len(c.Fields))
		for k := range c.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WithFields(logger.String(k, c.Fields[k]))
		}
	}

	return b.Build(), nil
}

// closeHandlers releases handlers already built when a later one
// fails, so no file descriptors leak.
func closeHandlers(handlers []handler.Handler) {
	for _, h := range handlers {
		_ = h.Close()
	}
}

func buildHandler(hc HandlerConfig, caller bool) (handler.Handler, error) {
	f, err := buildFormatter(hc, caller)
	if err != nil {
		return nil, err
	}
	policies, err := parseOverflowPolicy(hc.Overflow)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(hc.Type) {
	case "", "console":
		return consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{
			Formatter:      f,
			Async:          hc.Async,
			BufferSize:     hc.BufferSize,
			OverflowPolicy: policies,
			BlockTimeout:   hc.BlockTimeout,
			DrainTimeout:   hc.DrainTimeout,
		}), nil
	case "file":
		return filehandler.NewFileHandler(filehandler.FileConfig{
			Filename:       hc.Path,
			Formatter:      f,
			Async:          hc.Async,
			BufferSize:     hc.BufferSize,
			MaxSize:        hc.MaxSize,
			MaxBackups:     hc.MaxBackups,
			Daily:          hc.Daily,
			RotationHour:   hc.RotationHour,
			RotationMinute: hc.RotationMinute,
			DateOnly:       hc.DateOnly,
			ForceFlush:     hc.ForceFlush,
			Truncate:       hc.Truncate,
			OverflowPolicy: policies,
			BlockTimeout:   hc.BlockTimeout,
			DrainTimeout:   hc.DrainTimeout,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandlerType, hc.Type)
	}
}

func buildFormatter(hc HandlerConfig, caller bool) (formatter.Formatter, error) {
	fc := formatter.Config{
		TimestampFormat: hc.TimestampFormat,
		IncludeCaller:   caller,
	}
	switch strings.ToLower(hc.Format) {
	case "", "text":
		return formatter.NewTextFormatter(fc), nil
	case "json":
		return formatter.NewJSONFormatter(fc), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormatter, hc.Format)
	}
}

// parseOverflowPolicy maps a policy name onto every level. Empty input
// returns nil, which keeps the handler's per-level defaults.
func parseOverflowPolicy(s string) (map[core.Level]handler.OverflowPolicy, error) {
	var p handler.OverflowPolicy
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "drop_newest":
		p = handler.DropNewest
	case "drop_oldest":
		p = handler.DropOldest
	case "block":
		p = handler.Block
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOverflowPolicy, s)
	}

	policies := make(map[core.Level]handler.OverflowPolicy)
	for l := core.TraceLevel; l <= core.PanicLevel; l++ {
		policies[l] = p
	}
	return policies, nil
}

func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func parserFor(format Format) (koanf.Parser, error) {
	switch format {
	case FormatYAML:
		return kyaml.Parser(), nil
	case FormatJSON:
		return kjson.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
