package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/0xlemi/tunenote/internal/audio"
	"github.com/0xlemi/tunenote/internal/audio/portaudio"
	"github.com/0xlemi/tunenote/internal/engine"
	"github.com/0xlemi/tunenote/internal/ui"
)

type listenOptions struct {
	file  string
	plain bool
}

func (o *listenOptions) bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.file, "file", "f", "", "play a WAV file in real time instead of capturing")
	fs.BoolVar(&o.plain, "plain", false, "print one line per reading instead of the TUI")
}

func newListenCmd(a *app) *cobra.Command {
	opts := &listenOptions{}
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Tune from live input (the default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listen(cmd.Context(), opts)
		},
	}
	opts.bindFlags(cmd.Flags())
	return cmd
}

func (a *app) listen(ctx context.Context, opts *listenOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The TUI owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	switch {
	case opts.plain:
		logOut = os.Stderr
	case a.cfg.LogFile != "":
		f, err := tea.LogToFile(a.cfg.LogFile, "tunenote")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := a.logger(logOut)
	if err != nil {
		return err
	}

	src, err := a.openSource(opts, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames, err := src.Start(ctx)
	if err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	defer func() {
		if err := src.Stop(); err != nil && !errors.Is(err, audio.ErrNotCapturing) {
			logger.Error("stop capture", "error", err)
		}
	}()

	logger.Info("listening",
		"sample_rate", src.SampleRate(),
		"frame_size", a.cfg.FrameSize,
		"file", opts.file)

	eng := engine.New(a.detector(), logger)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return eng.Run(gctx, frames)
	})

	g.Go(func() error {
		// Leaving the renderer ends the session.
		defer cancel()

		if opts.plain {
			return ui.RunPlain(gctx, eng, os.Stdout, a.cfg.RefreshInterval())
		}

		p := tea.NewProgram(ui.NewModel(eng, a.cfg.RefreshInterval()),
			tea.WithAltScreen(),
			tea.WithContext(gctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})

	err = g.Wait()
	stats := eng.Stats()
	logger.Info("stopped", "processed", stats.Processed, "skipped", stats.Skipped)
	return err
}

func (a *app) openSource(opts *listenOptions, logger *slog.Logger) (audio.Capturer, error) {
	if opts.file != "" {
		src, err := audio.NewFileSource(opts.file, a.cfg.FrameSize, true, a.cfg.QueueDepth, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	c, err := portaudio.New(a.cfg.PortAudio(), logger)
	if err != nil {
		return nil, fmt.Errorf("create audio capturer: %w", err)
	}
	return c, nil
}
