package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xlemi/tunenote/internal/config"
	"github.com/0xlemi/tunenote/internal/logging"
	"github.com/0xlemi/tunenote/internal/pitch"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries the settings shared by every subcommand.
type app struct {
	cfg config.Config
}

func (a *app) logger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(w, level)
	slog.SetDefault(logger)
	return logger, nil
}

func (a *app) detector() pitch.Detector {
	return pitch.NewCorrelationDetector(a.cfg.PitchOptions()...)
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}
	listen := &listenOptions{}

	root := &cobra.Command{
		Use:   "tunenote",
		Short: "Musical pitch tuner",
		Long: "TuneNote detects the pitch of a monophonic instrument or voice and shows\n" +
			"the nearest note and how many cents it is out of tune.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.cfg.Validate()
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listen(cmd.Context(), listen)
		},
	}
	a.cfg.BindFlags(root.PersistentFlags())
	listen.bindFlags(root.Flags())

	root.AddCommand(
		newListenCmd(a),
		newDevicesCmd(),
		newAnalyzeCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("tunenote", version)
		},
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
