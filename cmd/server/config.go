package main

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lightsout/model"
)

type Settings struct {
	Port     string
	Layouts  string
	LogLevel log.Level
	model.Config
}

// loadSettings reads the environment through getenv, unset values fall back
// to defaults.
func loadSettings(getenv func(string) string) (Settings, error) {
	s := Settings{
		Port:     "8080",
		LogLevel: log.InfoLevel,
		Config:   model.Config{Rows: 5, Cols: 5, StartLitProbability: .25},
	}
	if port := getenv("PORT"); port != "" {
		s.Port = port
	} else {
		log.Printf("Defaulting to port %s", s.Port)
	}
	s.Layouts = getenv("LIGHTS_LAYOUTS")

	var err error
	if v := getenv("LIGHTS_ROWS"); v != "" {
		if s.Rows, err = strconv.Atoi(v); err != nil {
			return s, fmt.Errorf("LIGHTS_ROWS: %w", err)
		}
	}
	if v := getenv("LIGHTS_COLS"); v != "" {
		if s.Cols, err = strconv.Atoi(v); err != nil {
			return s, fmt.Errorf("LIGHTS_COLS: %w", err)
		}
	}
	if v := getenv("LIGHTS_CHANCE"); v != "" {
		if s.StartLitProbability, err = strconv.ParseFloat(v, 64); err != nil {
			return s, fmt.Errorf("LIGHTS_CHANCE: %w", err)
		}
	}
	if v := getenv("LIGHTS_SEED"); v != "" {
		if s.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return s, fmt.Errorf("LIGHTS_SEED: %w", err)
		}
	}
	if v := getenv("LIGHTS_LOG_LEVEL"); v != "" {
		if s.LogLevel, err = log.ParseLevel(v); err != nil {
			return s, fmt.Errorf("LIGHTS_LOG_LEVEL: %w", err)
		}
	}
	return s, s.Config.Validate()
}
