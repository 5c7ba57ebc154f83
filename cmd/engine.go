package cmd

import (
	"github.com/reel-cli/reel/cache"
	"github.com/reel-cli/reel/config"
	"github.com/reel-cli/reel/key"
	"github.com/reel-cli/reel/navigation"
	"github.com/reel-cli/reel/network"
	"github.com/reel-cli/reel/resolution"
	"github.com/reel-cli/reel/resolver"
	"github.com/reel-cli/reel/where"
	"github.com/spf13/viper"
)

func newStreamCache() *cache.Gache {
	return cache.New(where.Streams())
}

// newEngine wires the resolution engine from configuration.
// Callers own the engine and must Close it.
func newEngine() *resolution.Engine {
	return resolution.New(resolution.Options{
		Cache:    newStreamCache(),
		Resolver: resolver.NewHTTP(viper.GetString(key.ResolverEndpoint), network.Default()),
		TTL:      config.Seconds(key.CacheTTL),
		Timeout:  config.Seconds(key.ResolverTimeout),
		Language: viper.GetString(key.CaptionsLanguage),
	})
}

func newCatalog() *navigation.HTTPCatalog {
	return navigation.NewHTTPCatalog(viper.GetString(key.CatalogEndpoint), network.Default())
}
