// Package config loads slim's configuration.
//
// Values are layered, later layers winning: the embedded defaults, the
// user config file, an optional .slim.toml inside the profile, SLIM_*
// environment variables and finally explicit overrides from the command
// line.
package config
