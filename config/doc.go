// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the server, logging and metrics
// settings and the ordered handler chains the router serves.
package config
