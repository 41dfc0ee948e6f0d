package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

var ErrInvalidValue = errors.New("config: invalid value")

const (
	EnvPrefix = "MINDR"

	DefaultHideMenuTimeout = 500
	MaxHideMenuTimeout     = 60000

	defaultDir      = "~/.config/mindr"
	defaultFileName = "mindr.conf"
)

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

func ParseBackend(raw string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(raw))); b {
	case BackendFile, BackendSQLite:
		return b, nil
	default:
		return BackendFile, fmt.Errorf("%w: storage backend %q, try file or sqlite", ErrInvalidValue, raw)
	}
}

type Storage struct {
	Backend Backend
	// Path is the list location. Empty means todo.txt (or todo.db) next to
	// the configuration file.
	Path string
}

type Config struct {
	DisplayTodays    bool
	RemindUnfinished bool
	AutoHideMenu     bool
	HideMenuTimeout  uint16
	SelectionStyle   Selection
	Storage          Storage
	Keys             map[Action]string

	// File is where the configuration was loaded from.
	File string
}

func Default() Config {
	return Config{
		DisplayTodays:    true,
		RemindUnfinished: true,
		AutoHideMenu:     false,
		HideMenuTimeout:  DefaultHideMenuTimeout,
		SelectionStyle:   Brackets,
		Storage:          Storage{Backend: BackendFile},
		Keys: map[Action]string{
			Up:         "k",
			Down:       "j",
			PrevMenu:   "h",
			NextMenu:   "l",
			Mark:       "enter",
			Quit:       "q",
			AddTodo:    "a",
			RemoveTodo: "d",
			EditTodo:   "e",
		},
	}
}

// DefaultPath is ~/.config/mindr/mindr.conf with the home directory resolved.
func DefaultPath() (string, error) {
	dir, err := homedir.Expand(defaultDir)
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(dir, defaultFileName), nil
}

// TodoPath resolves where the list lives for the configured backend.
func (c Config) TodoPath() (string, error) {
	if c.Storage.Path != "" {
		p, err := homedir.Expand(c.Storage.Path)
		if err != nil {
			return "", fmt.Errorf("config: expand storage path: %w", err)
		}
		return p, nil
	}
	dir := filepath.Dir(c.File)
	if c.File == "" {
		d, err := homedir.Expand(defaultDir)
		if err != nil {
			return "", fmt.Errorf("config: resolve home directory: %w", err)
		}
		dir = d
	}
	name := "todo.txt"
	if c.Storage.Backend == BackendSQLite {
		name = "todo.db"
	}
	return filepath.Join(dir, name), nil
}

// KeyMap validates the configured key mapping.
func (c Config) KeyMap() (KeyMap, error) {
	return NewKeyMap(c.Keys)
}

// Entry is one key of the configuration file.
type Entry struct {
	Section string
	Key     string
	Value   string
}

// Entries lists the configuration in file order.
func (c Config) Entries() []Entry {
	out := []Entry{
		{"general", "display_todays", strconv.FormatBool(c.DisplayTodays)},
		{"general", "remind_unfinished", strconv.FormatBool(c.RemindUnfinished)},
		{"general", "auto_hide_menu", strconv.FormatBool(c.AutoHideMenu)},
		{"general", "hide_menu_timeout", strconv.FormatUint(uint64(c.HideMenuTimeout), 10)},
		{"style", "selection_style", c.SelectionStyle.String()},
		{"storage", "backend", string(c.Storage.Backend)},
		{"storage", "path", c.Storage.Path},
	}
	for _, a := range Actions() {
		out = append(out, Entry{"key_mapping", a.String(), displayKey(NormalizeTrigger(c.Keys[a]))})
	}
	return out
}

// Load reads the configuration at path, creating it with defaults when it
// does not exist. Missing or invalid values are logged and replaced by their
// defaults. MINDR_<SECTION>_<KEY> environment variables override the file.
func Load(path string, logger *slog.Logger) (Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.File = path
		if err := Save(path, cfg); err != nil {
			return Config{}, err
		}
		logger.Info("created configuration file", "path", path)
		return applyEnv(cfg, logger), nil
	} else if err != nil {
		return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := decode(v, logger)
	cfg.File = path
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied. It is used
// when no configuration file should be touched.
func FromEnv(logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}
	return applyEnv(Default(), logger)
}

func applyEnv(cfg Config, logger *slog.Logger) Config {
	v := newViper()
	for _, e := range cfg.Entries() {
		v.SetDefault(e.Section+"."+e.Key, e.Value)
	}
	out := decode(v, logger)
	out.File = cfg.File
	return out
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("ini")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper, logger *slog.Logger) Config {
	def := Default()
	cfg := def
	cfg.Keys = make(map[Action]string, len(def.Keys))

	lookup := func(section, key string) (string, bool) {
		name := section + "." + key
		if !v.IsSet(name) {
			logger.Warn("configuration value missing, using default", "key", name)
			return "", false
		}
		return v.GetString(name), true
	}
	invalid := func(name, raw string, def any, err error) {
		logger.Warn("configuration value invalid, using default", "key", name, "value", raw, "default", def, "err", err)
	}

	boolField := func(key string, dst *bool) {
		raw, ok := lookup("general", key)
		if !ok {
			return
		}
		b, valid := parseBool(raw)
		if !valid {
			invalid("general."+key, raw, *dst, fmt.Errorf("%w: not a boolean", ErrInvalidValue))
			return
		}
		*dst = b
	}
	boolField("display_todays", &cfg.DisplayTodays)
	boolField("remind_unfinished", &cfg.RemindUnfinished)
	boolField("auto_hide_menu", &cfg.AutoHideMenu)

	if raw, ok := lookup("general", "hide_menu_timeout"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		switch {
		case err != nil:
			invalid("general.hide_menu_timeout", raw, def.HideMenuTimeout, fmt.Errorf("%w: not a valid number", ErrInvalidValue))
		case n > MaxHideMenuTimeout:
			invalid("general.hide_menu_timeout", raw, def.HideMenuTimeout, fmt.Errorf("%w: greater than %d", ErrInvalidValue, MaxHideMenuTimeout))
		default:
			cfg.HideMenuTimeout = uint16(n)
		}
	}

	if raw, ok := lookup("style", "selection_style"); ok {
		s, err := ParseSelection(raw)
		if err != nil {
			invalid("style.selection_style", raw, def.SelectionStyle.String(), err)
		}
		cfg.SelectionStyle = s
	}

	if raw, ok := lookup("storage", "backend"); ok {
		b, err := ParseBackend(raw)
		if err != nil {
			invalid("storage.backend", raw, string(def.Storage.Backend), err)
		}
		cfg.Storage.Backend = b
	}
	// An empty path is meaningful, so it is read without a warning.
	cfg.Storage.Path = strings.TrimSpace(v.GetString("storage.path"))

	for _, a := range Actions() {
		trigger := def.Keys[a]
		if raw, ok := lookup("key_mapping", a.String()); ok {
			if strings.TrimSpace(raw) == "" {
				invalid("key_mapping."+a.String(), raw, trigger, fmt.Errorf("%w: empty key", ErrInvalidValue))
			} else {
				trigger = raw
			}
		}
		cfg.Keys[a] = trigger
	}
	return cfg
}

// Save writes cfg as INI to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	file := ini.Empty()
	for _, e := range cfg.Entries() {
		file.Section(e.Section).Key(e.Key).SetValue(e.Value)
	}
	tmp := path + ".tmp"
	if err := file.SaveTo(tmp); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("config: replace %s: %w", path, err)
	}
	return nil
}

func parseBool(raw string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
