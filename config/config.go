package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ArraySep joins list values into a single config entry.
const ArraySep = ";;"

// EnvPrefix is prepended to an upper-cased, underscored key to form the
// environment variable that overrides it, e.g. storage.mongo.uri becomes
// HERON_STORAGE_MONGO_URI.
const EnvPrefix = "HERON_"

// Config holds flattened key/value settings read from a JSON file. Nested
// objects flatten to dotted keys; lookups are case-insensitive and may be
// overridden from the environment.
type Config struct {
	values map[string]string
	file   string
}

// ReadConfig loads settings from a JSON file. A missing file is not an
// error; it yields an empty config driven entirely by the environment.
func ReadConfig(path string) (*Config, error) {
	c := &Config{
		values: make(map[string]string),
		file:   path,
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Warn().Str("path", path).Msg("no config file; relying on defaults and environment")
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.flatten("", doc)

	log.Debug().Str("path", path).Int("keys", len(c.values)).Msg("config loaded")
	return c, nil
}

func (c *Config) flatten(prefix string, doc map[string]interface{}) {
	for k, v := range doc {
		key := strings.ToLower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		switch val := v.(type) {
		case map[string]interface{}:
			c.flatten(key, val)
		case []interface{}:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			c.values[key] = strings.Join(parts, ArraySep)
		case bool:
			c.values[key] = strconv.FormatBool(val)
		case float64:
			// JSON numbers arrive as float64; keep integers readable
			if val == float64(int64(val)) {
				c.values[key] = strconv.FormatInt(int64(val), 10)
			} else {
				c.values[key] = strconv.FormatFloat(val, 'f', -1, 64)
			}
		case nil:
		default:
			c.values[key] = fmt.Sprintf("%v", val)
		}
	}
}

func envKey(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Get returns the value for key, preferring an environment override, then
// the config file, then fallback.
func (c *Config) Get(key, fallback string) string {
	key = strings.ToLower(key)
	if v, ok := os.LookupEnv(envKey(key)); ok {
		return v
	}
	if v, ok := c.values[key]; ok {
		return v
	}
	return fallback
}

func (c *Config) GetInt(key string, fallback int) int {
	v := c.Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("config value is not an integer")
		return fallback
	}
	return n
}

func (c *Config) GetBool(key string, fallback bool) bool {
	v := c.Get(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("config value is not a boolean")
		return fallback
	}
	return b
}

func (c *Config) GetArray(key string, fallback []string) []string {
	v := c.Get(key, "")
	if v == "" {
		return fallback
	}
	return strings.Split(v, ArraySep)
}

// Set writes a value for the lifetime of the process. It does not persist
// to the config file.
func (c *Config) Set(key, value string) {
	c.values[strings.ToLower(key)] = value
}
