// Package cli holds the command implementations behind cmd/bedrock,
// keeping cobra wiring thin and the behavior unit-testable.
package cli

import (
	"log/slog"
	"os"

	"github.com/aretw0/bedrock/internal/logging"
	"github.com/aretw0/bedrock/internal/registry"
)

// Environment variables honored when the matching flag is left unset.
// The unprefixed names are accepted as fallbacks when the prefixed
// variable is absent.
const (
	EnvBaseDir = "BEDROCK_BASE_DIR"
	EnvForce   = "BEDROCK_FORCE"
	EnvGPGSign = "BEDROCK_GPG_SIGN"

	envBaseDirAlias = "BASE_DIR"
	envForceAlias   = "FORCE"
	envGPGSignAlias = "GPG_SIGN"
)

// DefaultBaseDir is used when neither flag nor environment sets one.
const DefaultBaseDir = "./bedrock-out"

// RunOptions carries everything a run needs. No package globals: the base
// dir, overwrite policy, and log sink travel explicitly.
type RunOptions struct {
	BaseDir      string
	Force        bool
	Sign         bool
	KeyRef       string
	RegistryPath string
	Debug        bool
	Quiet        bool
}

// ResolveEnv fills unset options from the environment. Flags win over env,
// so callers apply flag values first and only then resolve.
func (o *RunOptions) ResolveEnv() {
	if o.BaseDir == "" {
		if v := envValue(EnvBaseDir, envBaseDirAlias); v != "" {
			o.BaseDir = v
		} else {
			o.BaseDir = DefaultBaseDir
		}
	}
	if !o.Force && envValue(EnvForce, envForceAlias) == "1" {
		o.Force = true
	}
	if !o.Sign && envValue(EnvGPGSign, envGPGSignAlias) == "1" {
		o.Sign = true
	}
}

// envValue returns the first non-empty value among names.
func envValue(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Modules loads the registry file when configured, otherwise the built-in
// default registry.
func (o *RunOptions) Modules() ([]registry.Descriptor, error) {
	if o.RegistryPath != "" {
		return registry.Load(o.RegistryPath)
	}
	return registry.Default(), nil
}

// Logger builds the run logger from the debug flag.
func (o *RunOptions) Logger() *slog.Logger {
	if o.Debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelInfo)
}
