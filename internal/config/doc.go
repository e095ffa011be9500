// Package config defines the YAML-backed settings shared by repository
// generator runs: repository root, external tool paths, signing key and
// concurrency limits. Helpers load, validate and persist the settings file.
package config
