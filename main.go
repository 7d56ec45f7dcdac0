package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jackwu/spectra/config"
	"github.com/jackwu/spectra/logging"
	"github.com/jackwu/spectra/model"
	"github.com/jackwu/spectra/reply"
	"github.com/jackwu/spectra/sfx"
	"github.com/jackwu/spectra/tui"
)

var version = "dev"

var (
	cfgFile  string
	mute     bool
	logLevel string
	force    bool
)

var rootCmd = &cobra.Command{
	Use:   "spectra",
	Short: "Spectra - a retro chat communicator with a talking portrait",
	Long: `Spectra is a terminal chat shell. Replies are typed out one character
at a time while the portrait's mouth moves and a beeper plays along.

Configuration is read from:
  1. --config flag (explicit path)
  2. ./spectra.yaml
  3. $HOME/.config/spectra/spectra.yaml

Every setting can be overridden with SPECTRA_<SECTION>_<KEY>, for example
SPECTRA_REVEAL_CHAR_DELAY=30ms.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

var sayCmd = &cobra.Command{
	Use:   "say [text...]",
	Short: "Print the reply to text (or to each stdin line) without the TUI",
	RunE:  runSay,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "spectra %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/spectra/spectra.yaml)")
	rootCmd.PersistentFlags().BoolVar(&mute, "mute", false, "disable sound effects")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies the persistent flags on top of the loaded settings and
// returns the config file that was read, if any.
func loadConfig() (*config.Config, string, error) {
	cfg, used, err := config.Load(cfgFile)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}
	overrideFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, used, nil
}

func overrideFlags(cfg *config.Config) {
	if mute {
		cfg.Audio.Enabled = false
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
}

// newSound starts opening the beeper in the background, or returns silence
// when audio is off.
func newSound(cfg *config.Config, log *logging.Logger) (sfx.Driver, func()) {
	if !cfg.Audio.Enabled {
		return sfx.Silent{}, func() {}
	}
	p := sfx.NewPlayer(sfx.Options{
		SampleRate: cfg.Audio.SampleRate,
		Volume:     cfg.Audio.Volume,
		Opener:     sfx.OpenOto(cfg.Audio.OpenTimeout),
		Logger:     log.Component("sfx"),
	})
	p.Prepare()
	return p, func() {
		if err := p.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close audio output")
		}
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, used, err := loadConfig()
	if err != nil {
		return err
	}
	tui.ApplyColorMode(cfg.UI.Color)

	log, err := logging.New(logging.Config{Dir: cfg.Log.Dir, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	defer log.Close()

	sound, closeSound := newSound(cfg, log)
	defer closeSound()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reloads := make(chan *config.Config, 1)
	watchConfig(ctx, log, used, reloads)

	session := model.NewSession()
	log.Info().Str("session", session.ID).Msg("starting")

	tuiLog := log.Component("tui")
	m := tui.NewModel(tui.Options{
		Config:  cfg,
		Session: session,
		Replies: reply.NewEcho(cfg.Reply.Format, cfg.Reply.Placeholder),
		Sound:   sound,
		Logger:  &tuiLog,
	})

	final, err := tui.Run(ctx, m, reloads)
	if err != nil {
		log.Error().Err(err).Msg("tui exited")
		return err
	}
	log.Info().
		Str("session", final.Session().ShortID).
		Int("messages", final.Session().Len()).
		Msg("session ended")
	return nil
}

// watchConfig forwards settings reloaded from path while ctx is alive. It
// does nothing when no config file is in use.
func watchConfig(ctx context.Context, log *logging.Logger, path string, reloads chan<- *config.Config) {
	if path == "" {
		return
	}

	err := config.Watch(path, func(cfg *config.Config) {
		overrideFlags(cfg)
		log.Info().Str("path", path).Msg("config reloaded")
		select {
		case reloads <- cfg:
		case <-ctx.Done():
		}
	}, func(err error) {
		log.Warn().Err(err).Msg("ignoring config change")
	})
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config watch disabled")
	}
}

func runSay(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Dir: cfg.Log.Dir, Level: cfg.Log.Level, Console: true})
	if err != nil {
		return err
	}
	defer log.Close()

	inputs := []string{strings.Join(args, " ")}
	if len(args) == 0 {
		if inputs, err = readLines(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	sound, closeSound := newSound(cfg, log)
	defer closeSound()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.Say(ctx, tui.SayOptions{
		Inputs:    inputs,
		Replies:   reply.NewEcho(cfg.Reply.Format, cfg.Reply.Placeholder),
		Sound:     sound,
		Out:       cmd.OutOrStdout(),
		CharDelay: cfg.Reveal.CharDelay,
		Logger:    log.Component("say"),
	})
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}
	if err := config.Default().Write(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
