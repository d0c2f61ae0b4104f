package cmd

import (
	"errors"
	"os"
	"os/exec"
	"slices"
	"strconv"

	"github.com/etnz/valutatrade/config"
)

// Environment variables passed to extensions, so that they share the data of vth.
const (
	EnvDataDir     = config.EnvPrefix + "_DATA_DIR"
	EnvDefaultBase = config.EnvPrefix + "_DEFAULT_BASE_CURRENCY"
	EnvRatesTTL    = config.EnvPrefix + "_RATES_TTL_SECONDS"
	EnvLogLevel    = config.EnvPrefix + "_LOG_LEVEL"
)

// IsExtension reports whether subcommand is not a vth command.
func IsExtension(subcommand string) bool {
	return subcommand != "" && !slices.Contains(append(Names(), "help", "flags", "commands"), subcommand)
}

// RunExtension looks for an external vth-<subcommand> binary in PATH and runs it.
// It returns found=false if there is no such binary.
func (a *App) RunExtension(subcommand string, args []string) (found bool, code int) {
	name := "vth-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		a.Log.Debug().Err(err).Str("extension", name).Msg("extension not found")
		return false, 0
	}

	c := exec.Command(lp, args...)
	c.Stdin = os.Stdin
	c.Stdout = a.Stdout
	c.Stderr = a.Stderr
	c.Env = append(os.Environ(),
		EnvDataDir+"="+a.Settings.DataDir,
		EnvDefaultBase+"="+a.Settings.DefaultBaseCurrency,
		EnvRatesTTL+"="+strconv.Itoa(a.Settings.RatesTTLSeconds),
		EnvLogLevel+"="+a.Settings.LogLevel,
	)

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		a.Log.Error().Err(err).Str("extension", name).Msg("cannot run extension")
		return true, 1
	}
	a.Log.Info().Str("extension", name).Msg("extension done")
	return true, 0
}
