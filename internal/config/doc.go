// Package config manages user-level settings stored at ~/.stackup/config.yaml.
// Values are layered from built-in defaults, the config file and STACKUP_*
// environment variables, and exposed as a typed Settings struct.
package config
