// Package config carga la configuración del toolkit desde defaults,
// un archivo opcional (mappo.yaml/json/toml) y variables MAPPO_*.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix      = "MAPPO"
	configFileName = "mappo"

	KeyAddr                   = "addr"
	KeyLogLevel               = "log_level"
	KeyLogFormat              = "log_format"
	KeyAppName                = "app_name"
	KeyDBDSN                  = "db_dsn"
	KeyBridgeURL              = "bridge_url"
	KeyBridgeTimeout          = "bridge_timeout"
	KeyScanCooldown           = "scan_cooldown"
	KeyScanCapability         = "scan_capability"
	KeyCaptureQuality         = "capture_quality"
	KeyCalendarStrictWritable = "calendar_strict_writable"
	KeyCalendarTimezone       = "calendar_timezone"
	KeyEventNotes             = "event_notes"
	KeyPlatform               = "platform"
	KeyUpcomingWindow         = "upcoming_window"
)

// MinScanCooldown es el piso del bloqueo del escáner.
const MinScanCooldown = time.Second

type Config struct {
	Addr string

	LogLevel  string
	LogFormat string
	AppName   string

	// Vacío => storage in-memory.
	DBDSN string

	// Vacío => dispositivo simulado (modo dev).
	BridgeURL     string
	BridgeTimeout time.Duration

	ScanCooldown   time.Duration
	ScanCapability string

	CaptureQuality float64

	CalendarStrictWritable bool
	CalendarLocation       *time.Location
	EventNotes             string
	UpcomingWindow         time.Duration

	// ios | android | web
	Platform string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyAppName, "mappo-toolkit")
	v.SetDefault(KeyDBDSN, "")
	v.SetDefault(KeyBridgeURL, "")
	v.SetDefault(KeyBridgeTimeout, "30s")
	v.SetDefault(KeyScanCooldown, "1200ms")
	v.SetDefault(KeyScanCapability, "camera")
	v.SetDefault(KeyCaptureQuality, 0.7)
	v.SetDefault(KeyCalendarStrictWritable, false)
	v.SetDefault(KeyCalendarTimezone, "Local")
	v.SetDefault(KeyEventNotes, "Created with Mappo Toolkit.")
	v.SetDefault(KeyPlatform, "android")
	v.SetDefault(KeyUpcomingWindow, "720h")
}

// Load lee la configuración. configPath puede ser vacío: en ese caso se busca
// mappo.* en el directorio actual y su ausencia no es un error.
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if p := strings.TrimSpace(configPath); p != "" {
		v.SetConfigFile(p)
	} else {
		v.SetConfigName(configFileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Addr:                   strings.TrimSpace(v.GetString(KeyAddr)),
		LogLevel:               v.GetString(KeyLogLevel),
		LogFormat:              v.GetString(KeyLogFormat),
		AppName:                strings.TrimSpace(v.GetString(KeyAppName)),
		DBDSN:                  strings.TrimSpace(v.GetString(KeyDBDSN)),
		BridgeURL:              strings.TrimSpace(v.GetString(KeyBridgeURL)),
		BridgeTimeout:          v.GetDuration(KeyBridgeTimeout),
		ScanCooldown:           v.GetDuration(KeyScanCooldown),
		ScanCapability:         strings.ToLower(strings.TrimSpace(v.GetString(KeyScanCapability))),
		CaptureQuality:         v.GetFloat64(KeyCaptureQuality),
		CalendarStrictWritable: v.GetBool(KeyCalendarStrictWritable),
		EventNotes:             strings.TrimSpace(v.GetString(KeyEventNotes)),
		UpcomingWindow:         v.GetDuration(KeyUpcomingWindow),
		Platform:               strings.ToLower(strings.TrimSpace(v.GetString(KeyPlatform))),
	}

	loc, err := time.LoadLocation(strings.TrimSpace(v.GetString(KeyCalendarTimezone)))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyCalendarTimezone, err)
	}
	cfg.CalendarLocation = loc

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%s required", KeyAddr)
	}
	if c.ScanCooldown < MinScanCooldown {
		return fmt.Errorf("%s must be >= %s, got %s", KeyScanCooldown, MinScanCooldown, c.ScanCooldown)
	}
	switch c.ScanCapability {
	case "camera", "scanner":
	default:
		return fmt.Errorf("%s: unsupported value %q", KeyScanCapability, c.ScanCapability)
	}
	if c.CaptureQuality <= 0 || c.CaptureQuality > 1 {
		return fmt.Errorf("%s must be in (0,1], got %v", KeyCaptureQuality, c.CaptureQuality)
	}
	if c.UpcomingWindow <= 0 {
		return fmt.Errorf("%s must be positive", KeyUpcomingWindow)
	}
	switch c.Platform {
	case "ios", "android", "web":
	default:
		return fmt.Errorf("%s: unsupported value %q", KeyPlatform, c.Platform)
	}
	return nil
}
