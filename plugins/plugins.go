package plugins

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/heronbot/heron/bot"
)

// Factory builds one plugin instance bound to the bot context.
type Factory func(b bot.Bot) bot.Plugin

// Descriptor is a statically registered plugin definition. There is no
// runtime discovery or reflection; every plugin in the binary announces
// itself here.
type Descriptor struct {
	Name string
	New  Factory
}

var registry []Descriptor

// Register adds a plugin definition to the built-in set. Call it from a
// plugin package's init.
func Register(name string, f Factory) {
	registry = append(registry, Descriptor{Name: name, New: f})
}

// Known returns the built-in definitions ordered by name, so that the
// default dispatch order is deterministic.
func Known() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Load instantiates plugins onto b. When the config lists plugin names,
// that explicit list wins and fixes the dispatch order; otherwise every
// known definition loads in name order. Unknown names are reported and
// skipped, never fatal.
func Load(b bot.Bot) {
	known := Known()

	wanted := b.Config().GetArray("plugins", nil)
	if wanted == nil {
		for _, d := range known {
			b.AddPlugin(d.New(b))
		}
		return
	}

	byName := make(map[string]Descriptor, len(known))
	for _, d := range known {
		byName[d.Name] = d
	}
	for _, name := range wanted {
		d, ok := byName[name]
		if !ok {
			log.Error().Str("plugin", name).Msg("config names a plugin this binary does not have")
			continue
		}
		b.AddPlugin(d.New(b))
	}
}
