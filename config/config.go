/*
Package config holds the settings of the editor.

Settings are read from a YAML file. Every key is optional; missing or
invalid values keep their defaults:

    duration_ms: 5000
    frame_step_ms: 16.67
    frame_interval_ms: 16.67
    identifier_order: [id, class, tag]
    viewport: { width: 500, height: 400 }
    listen: ":3000"
    trace_level: Error

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/npillmayer/keyframer/animation"
	"github.com/npillmayer/keyframer/document"
	"github.com/npillmayer/keyframer/preview"
	"github.com/npillmayer/keyframer/timeline"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'keyframer.config'.
func tracer() tracing.Trace {
	return tracing.Select("keyframer.config")
}

// Settings configures an editor.
type Settings struct {
	Duration        float64 // initial timeline duration in ms
	FrameStep       float64 // cursor advance per frame in ms
	FrameInterval   time.Duration
	IdentifierOrder []document.Source
	ViewportWidth   int
	ViewportHeight  int
	Listen          string // address of the live preview server
	TraceLevel      tracing.TraceLevel
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		Duration:        animation.DefaultDuration,
		FrameStep:       timeline.DefaultStep,
		FrameInterval:   timeline.DefaultFrameInterval,
		IdentifierOrder: document.DefaultPreference(),
		ViewportWidth:   preview.DefaultViewportWidth,
		ViewportHeight:  preview.DefaultViewportHeight,
		Listen:          ":3000",
		TraceLevel:      tracing.LevelError,
	}
}

type yamlSettings struct {
	DurationMs      float64  `yaml:"duration_ms"`
	FrameStepMs     float64  `yaml:"frame_step_ms"`
	FrameIntervalMs float64  `yaml:"frame_interval_ms"`
	IdentifierOrder []string `yaml:"identifier_order"`
	Viewport        struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"viewport"`
	Listen     string `yaml:"listen"`
	TraceLevel string `yaml:"trace_level"`
}

// Load reads settings from a YAML file. If the file does not exist, default
// settings are returned.
func Load(path string) (Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			tracer().Infof("no settings file %s, using defaults", path)
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}
	return Parse(rawData)
}

// Parse reads settings from YAML data.
func Parse(rawData []byte) (Settings, error) {
	settings := Default()
	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}
	applyYamlSettings(&settings, fileData)
	return settings, nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.DurationMs > 0 {
		settings.Duration = fileData.DurationMs
	}
	if fileData.FrameStepMs > 0 {
		settings.FrameStep = fileData.FrameStepMs
	}
	if fileData.FrameIntervalMs > 0 {
		settings.FrameInterval = time.Duration(fileData.FrameIntervalMs * float64(time.Millisecond))
	}
	if len(fileData.IdentifierOrder) > 0 {
		order := make([]document.Source, 0, len(fileData.IdentifierOrder))
		for _, s := range fileData.IdentifierOrder {
			src, err := document.ParseSource(s)
			if err != nil {
				tracer().Errorf("ignoring identifier order: %v", err)
				order = nil
				break
			}
			order = append(order, src)
		}
		if len(order) > 0 {
			settings.IdentifierOrder = order
		}
	}
	if fileData.Viewport.Width > 0 && fileData.Viewport.Height > 0 {
		settings.ViewportWidth = fileData.Viewport.Width
		settings.ViewportHeight = fileData.Viewport.Height
	}
	if fileData.Listen != "" {
		settings.Listen = fileData.Listen
	}
	if fileData.TraceLevel != "" {
		if level, ok := traceLevel(fileData.TraceLevel); ok {
			settings.TraceLevel = level
		} else {
			tracer().Errorf("ignoring unknown trace level %q", fileData.TraceLevel)
		}
	}
}

func traceLevel(s string) (tracing.TraceLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return tracing.LevelDebug, true
	case "info":
		return tracing.LevelInfo, true
	case "error":
		return tracing.LevelError, true
	}
	return tracing.LevelError, false
}
