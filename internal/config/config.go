package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the tools
// (e.g. MANAGEROF_SERVER, MANAGEROF_OUTPUT_DIR).
const EnvPrefix = "MANAGEROF"

const (
	DefaultOutputDir = "."
	DefaultPageSize  = 1000
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Keys shared by flags, environment variables and config files
const (
	KeyServer       = "server"
	KeySearchBase   = "search-base"
	KeyBindDN       = "bind-dn"
	KeyBindPassword = "bind-password"
	KeyStartTLS     = "start-tls"
	KeyInsecure     = "insecure"
	KeyPageSize     = "page-size"
	KeyTimeout      = "timeout"
	KeyOutputDir    = "output-dir"
	KeyFile         = "file"
	KeyWriteEmpty   = "write-empty"
	KeyIndex        = "index"
	KeyLogLevel     = "log-level"
	KeyLogFormat    = "log-format"
)

// Config holds the settings of one export run
type Config struct {
	Server       string
	SearchBase   string
	BindDN       string
	BindPassword string
	StartTLS     bool
	Insecure     bool
	PageSize     uint32
	Timeout      time.Duration

	OutputDir  string
	FileName   string
	WriteEmpty bool
	IndexPath  string

	LogLevel  string
	LogFormat string
}

// DefaultServer returns the domain of a domain-joined host as an LDAP URL,
// taken from USERDNSDOMAIN. Empty when the variable is unset.
func DefaultServer() string {
	if domain := os.Getenv("USERDNSDOMAIN"); domain != "" {
		return "ldap://" + strings.ToLower(domain)
	}
	return ""
}

// DefaultFileName returns a timestamped output file name
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("managerof_%s.json", now.UTC().Format("20060102T150405Z"))
}

// NewViper returns a viper instance reading MANAGEROF_* variables, with
// defaults for every key
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyOutputDir, DefaultOutputDir)
	v.SetDefault(KeyPageSize, DefaultPageSize)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	return v
}

// Load reads configFile (if set) into v and resolves the run configuration.
// Flags bound to v take precedence over the environment, which takes
// precedence over the file.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Server:       v.GetString(KeyServer),
		SearchBase:   v.GetString(KeySearchBase),
		BindDN:       v.GetString(KeyBindDN),
		BindPassword: v.GetString(KeyBindPassword),
		StartTLS:     v.GetBool(KeyStartTLS),
		Insecure:     v.GetBool(KeyInsecure),
		PageSize:     v.GetUint32(KeyPageSize),
		Timeout:      v.GetDuration(KeyTimeout),
		OutputDir:    v.GetString(KeyOutputDir),
		FileName:     v.GetString(KeyFile),
		WriteEmpty:   v.GetBool(KeyWriteEmpty),
		IndexPath:    v.GetString(KeyIndex),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
	}

	if cfg.Server == "" {
		cfg.Server = DefaultServer()
	}
	if cfg.FileName == "" {
		cfg.FileName = DefaultFileName(time.Now())
	}

	return cfg, nil
}
