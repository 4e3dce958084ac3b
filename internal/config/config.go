package config

import (
	"errors"
	"fmt"
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper/internal/mines"
)

type UI string

const (
	UIDesktop  UI = "desktop"
	UITerminal UI = "terminal"
	UIWeb      UI = "web"
)

const defaultCellSize = 50

type Config struct {
	UI          UI
	Params      mines.GameParams // zero fields are asked for at startup
	Seed        uint64           // 0 draws a fresh seed
	LockOnEnd   bool
	CellSize    int
	Addr        string
	Development bool
	LogFile     string
	// browser origins allowed to use the web API; empty allows all
	AllowedOrigins []string
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("minesweeper", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file path")
	fs.String("ui", string(UIDesktop), "front-end: desktop, terminal or web")
	fs.Int("width", 0, "board width in tiles")
	fs.Int("height", 0, "board height in tiles")
	fs.Int("bombs", 0, "number of bombs")
	fs.String("board", "", "board as width:height:bombs")
	fs.Uint64("seed", 0, "random seed for reproducible boards")
	fs.Bool("lock-on-end", true, "ignore moves once the game is won or lost")
	fs.Int("cell-size", defaultCellSize, "cell size in pixels for the window and board images")
	fs.String("addr", ":8080", "listen address of the web front-end")
	fs.Bool("development", false, "debug logging with colored console output")
	fs.String("log-file", "", "write logs to this file, rotated")
	fs.StringSlice("allowed-origins", nil, "browser origins allowed to use the web API (default any)")
	return fs
}

// Load reads flags from args, then MINESWEEPER_* environment variables, then
// the optional config file, falling back to the flag defaults.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("MINESWEEPER")
	v.AutomaticEnv()
	if err := v.BindEnv("development", "MINESWEEPER_DEVELOPMENT", "DEVELOPMENT"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("addr", "MINESWEEPER_ADDR", "APP_PORT"); err != nil {
		return nil, err
	}
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = errors.Join(bindErr, err)
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	c := &Config{
		UI:          UI(strings.ToLower(v.GetString("ui"))),
		Seed:        v.GetUint64("seed"),
		LockOnEnd:   v.GetBool("lock_on_end"),
		CellSize:    v.GetInt("cell_size"),
		Addr:        v.GetString("addr"),
		Development: v.GetBool("development"),
		LogFile:     v.GetString("log_file"),

		AllowedOrigins: v.GetStringSlice("allowed_origins"),
	}

	switch c.UI {
	case UIDesktop, UITerminal, UIWeb:
	default:
		return nil, fmt.Errorf("unknown ui %q", c.UI)
	}

	if c.CellSize < 1 {
		return nil, fmt.Errorf("cell size must be positive, got %d", c.CellSize)
	}

	if board := v.GetString("board"); board != "" {
		params, err := mines.ParseGameParams(board)
		if err != nil {
			return nil, err
		}
		c.Params = *params
	}
	if w := v.GetInt("width"); w > 0 {
		c.Params.Width = w
	}
	if h := v.GetInt("height"); h > 0 {
		c.Params.Height = h
	}
	if b := v.GetInt("bombs"); b > 0 {
		c.Params.BombCount = b
	}

	return c, nil
}

func (c *Config) Options() mines.Options {
	return mines.Options{LockOnEnd: c.LockOnEnd}
}

func (c *Config) Rand() *rand.Rand {
	if c.Seed != 0 {
		return rand.New(rand.NewPCG(c.Seed, c.Seed))
	}
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// LogValue implements [slog.LogValuer].
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("ui", string(c.UI)),
		slog.String("params", c.Params.String()),
		slog.Uint64("seed", c.Seed),
		slog.Bool("lock_on_end", c.LockOnEnd),
		slog.Int("cell_size", c.CellSize),
		slog.String("addr", c.Addr),
		slog.Bool("development", c.Development),
		slog.String("log_file", c.LogFile),
		slog.Any("allowed_origins", c.AllowedOrigins),
	)
}
