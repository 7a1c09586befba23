// Package config loads dynmodel settings.
//
// Sources, lowest precedence first: Default, a YAML or CUE file, a dotenv
// file, then DYNMODEL_* environment variables. CLI flags are applied on top
// by internal/cli. CUE files are unified with an embedded closed schema, so
// unknown fields and bad log levels are rejected at load time.
package config
