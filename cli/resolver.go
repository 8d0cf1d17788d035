package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/hermes/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Nested mappings are flattened by joining keys with "-", so both of these
// set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Keys may use underscores in place of hyphens. Numbers are passed to Kong as
// strings. A malformed file is logged and treated as empty.
//
// Command-line flags override config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring malformed configuration",
					slog.Any("error", err))
			}

			return config{}, nil
		}

		cfg := config{}
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

func (r config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := val.(type) {
		case map[string]any:
			r.flatten(key, v)

		case map[any]any:
			sub := make(map[string]any, len(v))
			for k, e := range v {
				sub[fmt.Sprint(k)] = e
			}

			r.flatten(key, sub)

		case []any:
			list := make([]any, len(v))
			for i, e := range v {
				list[i] = scalar(e)
			}

			r[key] = list

		case nil:

		default:
			r[key] = scalar(v)
		}
	}
}

// scalar converts numbers to strings, which Kong requires for parsing.
// Booleans are kept as is. Null values are skipped by flatten.
func scalar(v any) any {
	switch n := v.(type) {
	case bool:
		return n
	case string:
		return n
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprint(n)
	}
}
