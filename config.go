package main

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen     string       `yaml:"listen"`
	StaticDir  string       `yaml:"static_dir"`
	SessionKey string       `yaml:"session_key"`
	Emblems    EmblemConfig `yaml:"emblems"`
}

type EmblemConfig struct {
	State  string `yaml:"state"`
	Police string `yaml:"police"`
}

func defaultConfig() Config {
	return Config{
		Listen:     ":8084",
		StaticDir:  "./static",
		SessionKey: "plantao-dev-key-change-this",
		Emblems: EmblemConfig{
			State:  "./static/brasao-goias.png",
			Police: "./static/brasao-policia-civil.png",
		},
	}
}

// loadConfig reads the YAML config file, falling back to defaults field by
// field so the binary runs with no file at all.
func loadConfig(path string, log *zap.SugaredLogger) Config {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Infow("arquivo de configuração ausente, usando padrões", "path", path)
		return cfg
	}
	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		log.Warnw("configuração inválida, usando padrões", "path", path, "error", err)
		return cfg
	}
	if loaded.Listen != "" {
		cfg.Listen = loaded.Listen
	}
	if loaded.StaticDir != "" {
		cfg.StaticDir = loaded.StaticDir
	}
	if loaded.SessionKey != "" {
		cfg.SessionKey = loaded.SessionKey
	}
	if loaded.Emblems.State != "" {
		cfg.Emblems.State = loaded.Emblems.State
	}
	if loaded.Emblems.Police != "" {
		cfg.Emblems.Police = loaded.Emblems.Police
	}
	return cfg
}
