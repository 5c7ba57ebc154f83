package config

import (
	"github.com/reel-cli/reel/icon"
	"github.com/reel-cli/reel/key"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Default holds every configuration field by key.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func register(f Field) {
	if _, exists := Default[f.Key]; exists {
		panic("duplicate config key: " + f.Key)
	}
	Default[f.Key] = f
	EnvExposed = append(EnvExposed, f.Key)
}

func init() {
	// resolution
	register(Field{
		Key:         key.ResolverEndpoint,
		Value:       "https://api.example.com/stream/",
		Description: "Base URL of the stream resolution endpoint.\nThe source identifier is appended to it",
	})
	register(Field{
		Key:         key.ResolverTimeout,
		Value:       120,
		Description: "Seconds to wait for a stream to resolve before giving up",
		Positive:    true,
	})
	register(Field{
		Key:         key.CacheTTL,
		Value:       120,
		Description: "Seconds a resolved stream stays fresh in the local cache",
		Positive:    true,
	})
	register(Field{
		Key:         key.CatalogEndpoint,
		Value:       "https://api.example.com/tvshow/",
		Description: "Base URL of the show catalog endpoint.\nThe show identifier is appended to it",
	})
	register(Field{
		Key:         key.CaptionsLanguage,
		Value:       "en",
		Description: "Language code of the caption track selected by default.\nCaptions stay off if no track matches",
	})
	register(Field{
		Key:         key.NetworkImpersonateTLS,
		Value:       false,
		Description: "Use a Chrome TLS fingerprint for resolver and catalog requests",
	})

	// playback
	register(Field{
		Key:         key.Player,
		Value:       "mpv",
		Description: "Media player to use",
		Choices:     []string{"mpv", "iina"},
	})
	register(Field{
		Key:         key.HistorySave,
		Value:       true,
		Description: "Remember streams that were resolved successfully",
	})

	// presentation
	register(Field{
		Key:         key.IconsVariant,
		Value:       "plain",
		Description: "Icons variant. The nerd variant requires a nerd font",
		Choices:     icon.AvailableVariants(),
	})
	register(Field{
		Key:         key.CliColored,
		Value:       true,
		Description: "Enable colored CLI output",
	})
	register(Field{
		Key:         key.CliVersionCheck,
		Value:       true,
		Description: "Look for a newer release after printing help or version",
	})

	// diagnostics
	register(Field{
		Key:         key.LogsWrite,
		Value:       false,
		Description: "Write logs",
	})
	register(Field{
		Key:         key.LogsLevel,
		Value:       "info",
		Description: "Log level, from least to most verbose",
		Choices: lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string {
			return l.String()
		}),
	})
	register(Field{
		Key:         key.LogsJson,
		Value:       false,
		Description: "Use json format for logs",
	})
}
