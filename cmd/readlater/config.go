package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// defaultConfigPaths are searched for a YAML configuration file. Missing
// files are skipped.
var defaultConfigPaths = []string{
	"~/.config/readlater/config.yaml",
	".readlater.yaml",
}

// yamlConfig is a kong.ConfigurationLoader for YAML files whose keys are
// flag names, for example:
//
//	api-url: https://readlater.example.com/api/v1
//	engine: trafilatura
//	timeout: 30s
//
// Keys may use underscores in place of dashes. Flags given on the command
// line take precedence.
func yamlConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := values[flag.Name]
		if !ok {
			v, ok = values[strings.ReplaceAll(flag.Name, "-", "_")]
		}
		if !ok || v == nil {
			return nil, nil
		}
		return configValue(v), nil
	}), nil
}

// configValue turns a decoded YAML value into the string form kong parses
// from the command line. Lists become comma-separated.
func configValue(v any) string {
	list, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}
	parts := make([]string, len(list))
	for i, item := range list {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, ",")
}
