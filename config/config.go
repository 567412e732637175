package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigSearchDepth        = "search-depth"
	ConfigTTMode             = "tt-mode"
	ConfigTTFractionOfMem    = "tt-fraction-of-mem"
	ConfigTTMaxSizePower     = "tt-max-size-power"
	ConfigEvalLineWeights    = "eval-line-weights"
	ConfigEvalStrongCells    = "eval-strong-cell-weight"
	ConfigBotCode            = "bot-code"
	ConfigClockAllowance     = "clock-allowance"
	ConfigClockEnforce       = "clock-enforce"
	ConfigAutoplayGames      = "autoplay-games"
	ConfigAutoplayThreads    = "autoplay-threads"
	ConfigAutoplayLogfile    = "autoplay-logfile"
	ConfigAutoplaySummary    = "autoplay-summary-file"
	ConfigAutoplayRandomizer = "autoplay-random-first"
	ConfigCPUProfile         = "cpu-profile"
	ConfigMemProfile         = "mem-profile"
)

// ConfigFile is read at startup and written by Write.
const ConfigFile = "qubic.yaml"

// Config is a thin, lockable wrapper around a viper instance.
type Config struct {
	sync.Mutex
	*viper.Viper

	args []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigSearchDepth, 4)
	v.SetDefault(ConfigTTMode, "bounded")
	v.SetDefault(ConfigTTFractionOfMem, 0.02)
	v.SetDefault(ConfigTTMaxSizePower, 20)
	v.SetDefault(ConfigEvalLineWeights, "1,4,32,512")
	v.SetDefault(ConfigEvalStrongCells, 0.0)
	v.SetDefault(ConfigBotCode, "tactical")
	v.SetDefault(ConfigClockAllowance, "3m")
	v.SetDefault(ConfigClockEnforce, false)
	v.SetDefault(ConfigAutoplayGames, 100)
	v.SetDefault(ConfigAutoplayThreads, runtime.NumCPU())
	v.SetDefault(ConfigAutoplayLogfile, "/tmp/qubic-autoplay.txt")
	v.SetDefault(ConfigAutoplaySummary, "")
	v.SetDefault(ConfigAutoplayRandomizer, false)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
}

// DefaultConfig returns a configuration made of defaults only. It does
// not read the environment or any file.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{Viper: v}
}

// newFlagSet declares every setting as a --flag, with the defaults of v.
// Parsing stops at the first argument that is not a flag; the rest is a
// shell command and may carry its own -options.
func newFlagSet(v *viper.Viper) *pflag.FlagSet {
	fs := pflag.NewFlagSet("qubic", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, v.GetBool(ConfigDebug), "debug logging")
	fs.Int(ConfigSearchDepth, v.GetInt(ConfigSearchDepth), "search depth in plies")
	fs.String(ConfigTTMode, v.GetString(ConfigTTMode), "transposition table mode: bounded or legacy")
	fs.Float64(ConfigTTFractionOfMem, v.GetFloat64(ConfigTTFractionOfMem), "fraction of total memory for each transposition table")
	fs.Int(ConfigTTMaxSizePower, v.GetInt(ConfigTTMaxSizePower), "maximum transposition table size, as a power of 2")
	fs.String(ConfigEvalLineWeights, v.GetString(ConfigEvalLineWeights), "weights of lines holding 0, 1, 2 and 3 marks")
	fs.Float64(ConfigEvalStrongCells, v.GetFloat64(ConfigEvalStrongCells), "bonus per strong cell held, 0 to disable")
	fs.String(ConfigBotCode, v.GetString(ConfigBotCode), "default bot: tactical or search-only")
	fs.Duration(ConfigClockAllowance, v.GetDuration(ConfigClockAllowance), "thinking time per player per game")
	fs.Bool(ConfigClockEnforce, v.GetBool(ConfigClockEnforce), "forfeit players that run out of time")
	fs.Int(ConfigAutoplayGames, v.GetInt(ConfigAutoplayGames), "games per autoplay")
	fs.Int(ConfigAutoplayThreads, v.GetInt(ConfigAutoplayThreads), "autoplay worker threads")
	fs.String(ConfigAutoplayLogfile, v.GetString(ConfigAutoplayLogfile), "autoplay move log")
	fs.String(ConfigAutoplaySummary, v.GetString(ConfigAutoplaySummary), "YAML file for the autoplay summary")
	fs.Bool(ConfigAutoplayRandomizer, v.GetBool(ConfigAutoplayRandomizer), "pick the first player of each autoplay game at random")
	fs.String(ConfigCPUProfile, v.GetString(ConfigCPUProfile), "write a CPU profile to this file")
	fs.String(ConfigMemProfile, v.GetString(ConfigMemProfile), "write a memory profile to this file")
	return fs
}

// Load reads, in increasing order of priority: defaults, an optional
// qubic.yaml in the working directory, QUBIC_* environment variables and
// --key value flags. An unknown flag is an error.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := newFlagSet(c.Viper)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetConfigName("qubic")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	c.SetEnvPrefix("qubic")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return nil
}

// Args returns the arguments left after the flags; the shell runs them as
// a command.
func (c *Config) Args() []string {
	return c.args
}

// Set overrides a key at runtime, for example from the shell.
func (c *Config) Set(key string, value any) {
	c.Lock()
	defer c.Unlock()
	c.Viper.Set(key, value)
}

// Write saves every setting to ConfigFile in the working directory.
func (c *Config) Write() error {
	c.Lock()
	defer c.Unlock()
	return c.WriteConfigAs(ConfigFile)
}

// Snapshot copies the current settings into a Config of its own. Code that
// reads settings from another goroutine, like autoplay workers, gets a
// snapshot so that Set never races with it.
func (c *Config) Snapshot() *Config {
	c.Lock()
	defer c.Unlock()
	v := viper.New()
	setDefaults(v)
	for k, val := range c.AllSettings() {
		v.Set(k, val)
	}
	return &Config{Viper: v, args: c.args}
}

// SanitizedSettings is every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
