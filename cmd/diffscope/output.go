package main

import (
	"fmt"
	"io"

	"diffscope/internal/diff"
	"diffscope/internal/errors"
	"diffscope/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// outputFlags are shared by every command that renders a diff.
type outputFlags struct {
	stat   bool
	json   bool
	strict bool
	lines  string

	lineRange *diff.LineRange
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.stat, "stat", false, "Show a diffstat instead of the full diff")
	cmd.Flags().BoolVar(&o.json, "json", false, "Write the parsed diff as JSON")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Fail when part of the input could not be parsed")
	cmd.Flags().StringVarP(&o.lines, "lines", "L", "", "Only keep new-side lines in range (start,end or start,+offset)")
	cmd.MarkFlagsMutuallyExclusive("stat", "json")
}

func (o *outputFlags) validate() error {
	if o.lines == "" {
		o.lineRange = nil
		return nil
	}
	r, err := diff.ParseRange(o.lines)
	if err != nil {
		return errors.ValidationError(err.Error(), o.lines)
	}
	o.lineRange = &r
	return nil
}

func (o *outputFlags) mode() render.Mode {
	switch {
	case o.json:
		return render.ModeJSON
	case o.stat:
		return render.ModeStat
	default:
		return render.ModeFull
	}
}

// emit filters and renders report according to the output flags.
func (a *app) emit(w io.Writer, report diff.Report, o *outputFlags) error {
	for _, warning := range report.Warnings {
		if o.strict {
			a.logger.Warn("unparsed input", zap.String("detail", warning))
		} else {
			a.logger.Debug("unparsed input", zap.String("detail", warning))
		}
	}
	if o.strict && len(report.Warnings) > 0 {
		return errors.ValidationError(fmt.Sprintf("%d part(s) of the diff could not be parsed", len(report.Warnings)), report.Warnings)
	}

	files := report.Files
	if o.lineRange != nil {
		files = diff.FilterLines(files, *o.lineRange)
		a.logger.Debug("filtered lines", zap.Stringer("range", *o.lineRange), zap.Int("files", len(files)))
	}

	summary := diff.Totals(files)
	a.logger.Debug("parsed diff",
		zap.Int("files", summary.Files),
		zap.Int("additions", summary.Additions),
		zap.Int("deletions", summary.Deletions),
		zap.String("mode", string(o.mode())),
	)

	renderer, err := render.New(o.mode(), render.Options{Color: a.cfg.Color, StatWidth: a.cfg.Stat.Width})
	if err != nil {
		return errors.Internal("selecting renderer", err)
	}
	if err := renderer.Render(w, files); err != nil {
		return fmt.Errorf("rendering diff: %w", err)
	}
	return nil
}
