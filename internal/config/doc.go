// Package config defines the application configuration model and its
// loading and persistence. Configuration is read from a .env file, an
// optional YAML config file, and ANKIGEN_-prefixed environment variables;
// the settings endpoints write updates back into the .env file.
package config
