// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It provides typed
// access to the settings each component needs, keeping configuration details
// out of the business logic.
package config
