package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// demoConfig is the YAML-driven configuration for the demo binary: enough
// to exercise the cache, its persistence controller, and its eviction
// policy without hardcoding any of them into main.go.
type demoConfig struct {
	CacheName            string        `yaml:"cacheName"`
	CacheFile            string        `yaml:"cacheFile"`
	EvictionInterval     time.Duration `yaml:"evictionInterval"`
	NotificationInterval time.Duration `yaml:"notificationInterval"`
	SaveInterval         time.Duration `yaml:"saveInterval"`
	StaleAfter           time.Duration `yaml:"staleAfter"`
}

func defaultConfig() demoConfig {
	return demoConfig{
		CacheName:            "quotes",
		CacheFile:            "quotes.json",
		EvictionInterval:     30 * time.Second,
		NotificationInterval: 5 * time.Second,
		SaveInterval:         15 * time.Second,
		StaleAfter:           2 * time.Minute,
	}
}

func loadConfig(path string) (demoConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
