package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/echomind/echomind/internal/client"
	"github.com/echomind/echomind/internal/config"
	"github.com/echomind/echomind/internal/logging"
	"github.com/echomind/echomind/internal/tui"
	"github.com/echomind/echomind/internal/widget"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "echomind-chat",
		Short:        "Talk to the EchoMind journaling assistant",
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringP("endpoint", "e", "", "Chat endpoint URL (defaults to ECHOMIND_CHAT_ENDPOINT)")
	rootCmd.Flags().Bool("plain", false, "Use line mode even on a terminal")
	rootCmd.Flags().String("log-level", "", "Log level (defaults to LOG_LEVEL)")
	rootCmd.Flags().String("log-file", "", "Write logs to this file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	endpoint, _ := cmd.Flags().GetString("endpoint")
	if endpoint == "" {
		endpoint = cfg.Client.Endpoint
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	plain, _ := cmd.Flags().GetBool("plain")
	logFile, _ := cmd.Flags().GetString("log-file")

	interactive := !plain && isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())

	logger, closeLog, err := newLogger(cfg.Log, logFile, interactive)
	if err != nil {
		return err
	}
	defer closeLog()

	w := widget.New(
		client.New(endpoint, client.WithLogger(logger)),
		widget.WithLogger(logger),
	)
	logger.Debug().Str("endpoint", endpoint).Bool("interactive", interactive).Msg("starting chat")

	if !interactive {
		return tui.RunPlain(ctx, w, os.Stdin, os.Stdout)
	}

	program := tea.NewProgram(tui.New(ctx, w), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run chat ui")
	}
	return nil
}

// newLogger keeps logs off the terminal while the full-screen UI owns it.
func newLogger(cfg config.LogConfig, path string, interactive bool) (zerolog.Logger, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), func() {}, errors.Wrapf(err, "open log file %s", path)
		}
		return logging.Setup(cfg, f), func() { _ = f.Close() }, nil
	}

	var out io.Writer = os.Stderr
	if interactive {
		out = io.Discard
	}
	return logging.Setup(cfg, out), func() {}, nil
}
