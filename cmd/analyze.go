package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/0xlemi/tunenote/internal/audio"
	"github.com/0xlemi/tunenote/internal/engine"
	"github.com/0xlemi/tunenote/internal/ui"
)

type analyzeOptions struct {
	json bool
}

// frameResult is one line of --json output. Frequency fields are null
// for frames without a pitch.
type frameResult struct {
	Time  float64  `json:"time"`
	Hz    *float32 `json:"hz"`
	Note  string   `json:"note,omitempty"`
	Cents *float32 `json:"cents"`
	DB    float32  `json:"db"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Detect the pitch of every frame of a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyze(cmd.Context(), args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print one JSON object per frame")
	return cmd
}

func (a *app) analyze(ctx context.Context, path string, opts *analyzeOptions, out, logOut io.Writer) error {
	logger, err := a.logger(logOut)
	if err != nil {
		return err
	}

	src, err := audio.NewFileSource(path, a.cfg.FrameSize, false, a.cfg.QueueDepth, logger)
	if err != nil {
		return err
	}
	frames, err := src.Start(ctx)
	if err != nil {
		return err
	}
	defer src.Stop()

	eng := engine.New(a.detector(), logger)
	enc := json.NewEncoder(out)

	var total, pitched int
	for buf := range frames {
		r, err := eng.Process(buf)
		if err != nil {
			return fmt.Errorf("analyze frame at %v: %w", buf.Offset, err)
		}
		total++
		if r.Pitch() != nil {
			pitched++
		}

		if opts.json {
			err = enc.Encode(newFrameResult(r))
		} else {
			_, err = fmt.Fprintln(out, ui.FormatReading(r))
		}
		if err != nil {
			return err
		}
	}
	if err := src.Err(); err != nil {
		return err
	}

	logger.Info("analyzed", "path", path, "frames", total, "pitched", pitched, "duration", src.Duration())
	return nil
}

func newFrameResult(r *engine.Reading) frameResult {
	res := frameResult{
		Time: r.Offset.Seconds(),
		DB:   r.DB,
	}
	if p := r.Pitch(); p != nil {
		hz, cents := p.Hz, p.CentsError()
		res.Hz = &hz
		res.Cents = &cents
		res.Note = p.String()
	}
	return res
}
