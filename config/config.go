package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Service struct {
	URL string `mapstructure:"url"`
}

type Services struct {
	Analysis Service `mapstructure:"analysis"`
	Renderer Service `mapstructure:"renderer"`
	Emotion  Service `mapstructure:"emotion"`
}

type Audio struct {
	SampleRate int    `mapstructure:"sample_rate"`
	Channels   int    `mapstructure:"channels"`
	Format     string `mapstructure:"format"`
	Device     string `mapstructure:"device"`
}

type Credentials struct {
	HumeAPIKey      string `mapstructure:"hume_api_key"`
	GoogleCredsFile string `mapstructure:"google_credentials_file"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
}

type Coach struct {
	Model   string `mapstructure:"model"`
	Profile string `mapstructure:"profile"`
}

type Server struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type Root struct {
	App struct {
		Name   string `mapstructure:"name"`
		LogLvl string `mapstructure:"log_level"`
	} `mapstructure:"app"`
	Audio       Audio       `mapstructure:"audio"`
	Services    Services    `mapstructure:"services"`
	Credentials Credentials `mapstructure:"credentials"`
	Coach       Coach       `mapstructure:"coach"`
	Server      Server      `mapstructure:"server"`
	Paths       struct {
		Outputs string `mapstructure:"outputs"`
	} `mapstructure:"paths"`
}

// Load reads config/{env}/config.yaml (env from CONFIG_ENV, default dev) and
// applies PODIUM_* environment overrides on top. A missing file is fine; env
// alone is a valid configuration.
func Load() (*Root, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix("podium")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, p := range []string{
		filepath.Join("config", env, "config.yaml"),
		filepath.Join("config", "config.yaml"),
	} {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		err = v.ReadConfig(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", p, err)
		}
		break
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "podium")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.format", "wav")
	v.SetDefault("audio.device", "default")
	v.SetDefault("services.analysis.url", "http://localhost:5000")
	v.SetDefault("services.renderer.url", "")
	v.SetDefault("services.emotion.url", "wss://api.hume.ai/v0/stream/models")
	v.SetDefault("credentials.hume_api_key", "")
	v.SetDefault("credentials.google_credentials_file", "")
	v.SetDefault("credentials.gemini_api_key", "")
	v.SetDefault("coach.model", "gemini-1.5-pro")
	v.SetDefault("coach.profile", "")
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.request_timeout", 90*time.Second)
	v.SetDefault("paths.outputs", "outputs")
}
