// Package config provides configuration structures and utilities for adascan.
// It defines the main configuration options for evaluating sites, fetch
// settings, and report generation preferences.
package config
