// Package config defines the application configuration structure and the
// loader that populates it from environment variables and optional config
// files. Configuration is validated at load time so the rest of the
// application can assume a well-formed Config.
package config
