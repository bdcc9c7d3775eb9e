/*
Package config provides type-safe configuration extraction from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
Evaluator settings embedded in YAML or JSON documents are read this way
without verbose type assertions and nil checks.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "locale":    "fr-FR",
	    "separator": ";",
	    "max_depth": 64,
	})

	locale := cfg.String("locale", "en")   // "fr-FR"
	sep := cfg.Rune("separator", ',')       // ';'
	depth := cfg.Int("max_depth", 256)      // 64

# Evaluator Settings

Settings reads the keys shared by every evaluator:

	name: pricing
	locale: fr-FR
	separator: ";"
	style: excel
	operators: ["+", "-", "*", "/"]
	translations:
	  sum: somme
	max_depth: 64
	max_length: 4096

Concrete evaluators turn these into a grammar (see arith.FromConfig);
Options converts the limits into evaluator options.

# File Loading

Load configuration from YAML or JSON files:

	cfg, err := config.FromFile("evaluators.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	// Or load from bytes
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation. However, if the original map is modified
externally, behavior is undefined.
*/
package config
