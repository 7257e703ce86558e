package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"codeberg.org/miketth/kbddbar/pkg/kbdd"
	"github.com/adrg/xdg"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	appName = "kbddbar"

	LivenessPs   = "ps"
	LivenessDBus = "dbus"

	OutputI3bar   = "i3bar"
	OutputText    = "text"
	OutputPolybar = "polybar"

	JournalSQLite = "sqlite"
	JournalJSON   = "json"
	JournalMemory = "memory"
	JournalNone   = "none"
)

var ErrMisconfiguredColours = errors.New(`"colours" should be a list, to set a colour for all layouts use the bar's foreground`)

type Config struct {
	UpdateInterval      time.Duration
	ConfiguredKeyboards []string
	Colours             kbdd.ColourScheme

	Liveness    string
	ProcessName string
	PsPath      string
	DetectExit  bool

	Output      string
	ClickEvents bool
	Notify      bool

	Journal JournalConfig

	EvdevXMLPath string
}

type JournalConfig struct {
	Backend string
	Path    string
}

// Load reads the config file at path, or the kbddbar/config.yaml found in
// the XDG config directories when path is empty. Env vars prefixed with
// KBDDBAR_ override file values.
func Load(path string, log *zap.SugaredLogger) (Config, error) {
	v := viper.New()

	v.SetDefault("update_interval", 1)
	v.SetDefault("configured_keyboards", []string{"us", "ir"})
	v.SetDefault("colours", nil)
	v.SetDefault("liveness", LivenessPs)
	v.SetDefault("process_name", "kbdd")
	v.SetDefault("ps_path", "ps")
	v.SetDefault("detect_exit", false)
	v.SetDefault("output", OutputI3bar)
	v.SetDefault("click_events", true)
	v.SetDefault("notify", false)
	v.SetDefault("journal.backend", JournalSQLite)
	v.SetDefault("journal.path", "")
	v.SetDefault("evdev_xml_path", "/usr/share/X11/xkb/rules/evdev.xml")

	v.SetConfigType("yaml")
	v.SetEnvPrefix("KBDDBAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		found, err := xdg.SearchConfigFile(appName + "/config.yaml")
		if err == nil {
			path = found
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		log.Debugw("loaded config", "path", path)
	}

	colours, err := parseColours(v.Get("colours"))
	if err != nil {
		// the layout label still works without colours
		log.Errorw("ignoring colours", "error", err)
		colours = kbdd.NoColours()
	}

	cfg := Config{
		UpdateInterval:      time.Duration(v.GetFloat64("update_interval") * float64(time.Second)),
		ConfiguredKeyboards: v.GetStringSlice("configured_keyboards"),
		Colours:             colours,
		Liveness:            v.GetString("liveness"),
		ProcessName:         v.GetString("process_name"),
		PsPath:              v.GetString("ps_path"),
		DetectExit:          v.GetBool("detect_exit"),
		Output:              v.GetString("output"),
		ClickEvents:         v.GetBool("click_events"),
		Notify:              v.GetBool("notify"),
		Journal: JournalConfig{
			Backend: v.GetString("journal.backend"),
			Path:    v.GetString("journal.path"),
		},
		EvdevXMLPath: v.GetString("evdev_xml_path"),
	}

	if cfg.Journal.Path == "" && cfg.Journal.Backend != JournalNone && cfg.Journal.Backend != JournalMemory {
		cfg.Journal.Path, err = defaultJournalPath(cfg.Journal.Backend)
		if err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func defaultJournalPath(backend string) (string, error) {
	name := "layouts.db"
	if backend == JournalJSON {
		name = "layouts.json"
	}

	path, err := xdg.DataFile(appName + "/" + name)
	if err != nil {
		return "", fmt.Errorf("get journal path: %w", err)
	}

	return path, nil
}

// parseColours decides once whether per-layout colours are configured.
func parseColours(raw any) (kbdd.ColourScheme, error) {
	switch v := raw.(type) {
	case nil:
		return kbdd.NoColours(), nil
	case []string:
		return kbdd.ColourList(v...), nil
	case []any:
		colours := make([]string, 0, len(v))
		for _, c := range v {
			s, ok := c.(string)
			if !ok {
				return kbdd.NoColours(), fmt.Errorf("%w: element %v is %T", ErrMisconfiguredColours, c, c)
			}
			colours = append(colours, s)
		}
		return kbdd.ColourList(colours...), nil
	}

	return kbdd.NoColours(), fmt.Errorf("%w: got %T", ErrMisconfiguredColours, raw)
}

func (c Config) Validate() error {
	var result *multierror.Error

	if len(c.ConfiguredKeyboards) == 0 {
		result = multierror.Append(result, errors.New("configured_keyboards must not be empty"))
	}
	for i, k := range c.ConfiguredKeyboards {
		if strings.TrimSpace(k) == "" {
			result = multierror.Append(result, fmt.Errorf("configured_keyboards[%d] is empty", i))
		}
	}

	if c.UpdateInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("update_interval must be > 0, got %s", c.UpdateInterval))
	}

	switch c.Liveness {
	case LivenessPs:
		if c.ProcessName == "" {
			result = multierror.Append(result, errors.New("process_name is required for ps liveness"))
		}
	case LivenessDBus:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown liveness %q", c.Liveness))
	}

	switch c.Output {
	case OutputI3bar, OutputText, OutputPolybar:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown output %q", c.Output))
	}

	switch c.Journal.Backend {
	case JournalSQLite, JournalJSON:
		if c.Journal.Path == "" {
			result = multierror.Append(result, errors.New("journal.path is required"))
		}
	case JournalMemory, JournalNone:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown journal backend %q", c.Journal.Backend))
	}

	return result.ErrorOrNil()
}

type dumpJournal struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
}

type dump struct {
	UpdateInterval      float64     `yaml:"update_interval"`
	ConfiguredKeyboards []string    `yaml:"configured_keyboards"`
	Colours             []string    `yaml:"colours"`
	Liveness            string      `yaml:"liveness"`
	ProcessName         string      `yaml:"process_name"`
	PsPath              string      `yaml:"ps_path"`
	DetectExit          bool        `yaml:"detect_exit"`
	Output              string      `yaml:"output"`
	ClickEvents         bool        `yaml:"click_events"`
	Notify              bool        `yaml:"notify"`
	Journal             dumpJournal `yaml:"journal"`
	EvdevXMLPath        string      `yaml:"evdev_xml_path"`
}

// Dump writes the effective config as YAML in the same shape Load reads.
func (c Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	d := dump{
		UpdateInterval:      c.UpdateInterval.Seconds(),
		ConfiguredKeyboards: c.ConfiguredKeyboards,
		Colours:             c.Colours.Colours(),
		Liveness:            c.Liveness,
		ProcessName:         c.ProcessName,
		PsPath:              c.PsPath,
		DetectExit:          c.DetectExit,
		Output:              c.Output,
		ClickEvents:         c.ClickEvents,
		Notify:              c.Notify,
		Journal:             dumpJournal{Backend: c.Journal.Backend, Path: c.Journal.Path},
		EvdevXMLPath:        c.EvdevXMLPath,
	}

	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return enc.Close()
}
