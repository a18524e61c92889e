package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Duration parses yaml values like "10m" or "24h".
// yaml.v2 can't unmarshal those into time.Duration directly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Public struct {
	HttpPort              int           `yaml:"http_port"`
	JwtTTL                Duration      `yaml:"jwt_ttl"`
	ViewCooldown          Duration      `yaml:"view_cooldown"`           // repeat views inside this window don't count
	ViewSweepInterval     Duration      `yaml:"view_sweep_interval"`     // how often stale view records are reclaimed
	MediaDir              string        `yaml:"media_dir"`
	MaxMediaSize          int64         `yaml:"max_media_size"`          // per file, bytes
	MaxMediaPerPost       int           `yaml:"max_media_per_post"`
	MaxImagePixels        int64         `yaml:"max_image_pixels"`        // decoded dimension guard
	AllowedImageMimeTypes []string      `yaml:"allowed_image_mime_types"`
	LogLevel              string        `yaml:"log_level"`
	LogJSON               bool          `yaml:"log_json"`
	SecureCookies         bool          `yaml:"secure_cookies"`
	CorsOrigins           []string      `yaml:"cors_origins"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL.Std()
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (s *Config) applyDefaults() {
	if s.Public.ViewCooldown == 0 {
		s.Public.ViewCooldown = Duration(10 * time.Minute)
	}
	if s.Public.ViewSweepInterval == 0 {
		s.Public.ViewSweepInterval = Duration(5 * time.Minute)
	}
	if s.Public.HttpPort == 0 {
		s.Public.HttpPort = 8080
	}
	if s.Public.MaxMediaPerPost == 0 {
		s.Public.MaxMediaPerPost = 4
	}
}
