// Package config loads generation settings from a YAML file.
//
// A Config starts from Default, is overlaid by an optional file (Load) and
// then by explicitly set command-line flags. Validate is the single place
// settings are checked; every failure is a CONFIG_ERROR and is reported
// before any wordlist or output file is opened.
package config
