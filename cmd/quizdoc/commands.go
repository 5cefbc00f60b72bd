package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/quizdoc/internal/canvas"
	"github.com/mind-engage/quizdoc/internal/config"
	"github.com/mind-engage/quizdoc/internal/examsheet"
	"github.com/mind-engage/quizdoc/internal/logger"
	"github.com/mind-engage/quizdoc/internal/pipeline"
	"github.com/mind-engage/quizdoc/internal/qti/export"
	"github.com/mind-engage/quizdoc/internal/quiz"
)

func parseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Value: "auto", Usage: "auto, sectioned, cmpe or plaintext"},
		&cli.BoolFlag{Name: "block-math", Usage: "emit $$...$$ instead of \\(...\\)"},
		&cli.BoolFlag{Name: "bracket-math", Usage: "treat [expr] as inline math"},
		&cli.StringFlag{Name: "unresolved-key", Usage: "none or first; empty keeps each format's default"},
	}
}

// setup loads config, builds the logger and parses the FILE argument.
func setup(cmd *cli.Command) (config.Config, *logger.Logger, quiz.Result, string, error) {
	file := cmd.Args().First()
	if file == "" {
		return config.Config{}, nil, quiz.Result{}, "", errors.New("FILE argument required")
	}
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, nil, quiz.Result{}, "", fmt.Errorf("config: %w", err)
	}
	lg := logger.Nop()
	if cmd.Bool("verbose") {
		if lg, err = logger.New("dev"); err != nil {
			return cfg, nil, quiz.Result{}, "", err
		}
	}

	opts := pipeline.Options{
		BlockMath:     flagOr(cmd, "block-math", cfg.Parse.BlockMath),
		BracketMath:   flagOr(cmd, "bracket-math", cfg.Parse.BracketMath),
		UnresolvedKey: cfg.UnresolvedPolicy(),
		Logger:        lg,
	}
	if cmd.IsSet("format") {
		kind, ok := quiz.ParseFormatKind(cmd.String("format"))
		if !ok {
			return cfg, lg, quiz.Result{}, "", fmt.Errorf("unknown format %q", cmd.String("format"))
		}
		opts.Format = kind
	}
	if v := cmd.String("unresolved-key"); v != "" {
		p, ok := quiz.ParseUnresolvedPolicy(v)
		if !ok {
			return cfg, lg, quiz.Result{}, "", fmt.Errorf("unknown unresolved key policy %q", v)
		}
		opts.UnresolvedKey = p
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return cfg, lg, quiz.Result{}, "", err
	}
	return cfg, lg, pipeline.Parse(string(raw), filepath.Base(file), opts), file, nil
}

// flagOr returns the named bool flag when it was given on the command line
// and def otherwise, so --flag=false can switch off a configured default.
func flagOr(cmd *cli.Command, name string, def bool) bool {
	if cmd.IsSet(name) {
		return cmd.Bool(name)
	}
	return def
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse a quiz document and print the questions",
		ArgsUsage: "FILE",
		Flags: append(parseFlags(),
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "json", Usage: "json or yaml"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, lg, res, _, err := setup(cmd)
			if err != nil {
				return err
			}
			defer lg.Sync()
			return writeResult(cmd.Root().Writer, res, cmd.String("output"))
		},
	}
}

func writeResult(w io.Writer, res quiz.Result, output string) error {
	if w == nil {
		w = os.Stdout
	}
	switch strings.ToLower(output) {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output %q", output)
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write a QTI 2.1 package, or a student exam sheet with --clean",
		ArgsUsage: "FILE",
		Flags: append(parseFlags(),
			&cli.StringFlag{Name: "out", Required: true, Usage: "file to write (zip, or Markdown with --clean)"},
			&cli.StringFlag{Name: "title", Usage: "quiz title (defaults to the file name)"},
			&cli.BoolFlag{Name: "clean", Usage: "write a Markdown student copy without answers"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, lg, res, file, err := setup(cmd)
			if err != nil {
				return err
			}
			defer lg.Sync()
			title := titleFor(cmd.String("title"), file)
			var data []byte
			if cmd.Bool("clean") {
				data = examsheet.Render(res.Questions, res.Sections, examsheet.Options{Title: title})
			} else if data, err = export.BuildPackage(title, res.Questions); err != nil {
				return err
			}
			if err := os.WriteFile(cmd.String("out"), data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().ErrWriter, "wrote %d questions to %s\n", len(res.Questions), cmd.String("out"))
			return nil
		},
	}
}

func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "create a quiz on the configured Canvas instance",
		ArgsUsage: "FILE",
		Flags: append(parseFlags(),
			&cli.StringFlag{Name: "course", Usage: "course id (defaults to platform.course_id)"},
			&cli.StringFlag{Name: "title", Usage: "quiz title (defaults to the file name)"},
			&cli.IntFlag{Name: "time-limit", Usage: "time limit in minutes (defaults to platform.time_limit_min)"},
			&cli.BoolFlag{Name: "publish", Usage: "publish the quiz immediately"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, lg, res, file, err := setup(cmd)
			if err != nil {
				return err
			}
			defer lg.Sync()
			if cfg.Platform.BaseURL == "" || cfg.Platform.Token == "" {
				return errors.New("platform.base_url and platform.token must be configured")
			}
			course := cmd.String("course")
			if course == "" {
				course = cfg.Platform.CourseID
			}
			s := canvas.DefaultSettings(titleFor(cmd.String("title"), file))
			s.TimeLimit = cfg.Platform.TimeLimitMin
			if cmd.IsSet("time-limit") {
				s.TimeLimit = int(cmd.Int("time-limit"))
			}
			s.Published = flagOr(cmd, "publish", cfg.Platform.Published)

			up := canvas.NewUploader(canvas.NewClient(cfg.Platform.BaseURL, cfg.Platform.Token), lg)
			rep, err := up.Upload(ctx, course, res.Questions, res.Sections, s)
			if err != nil {
				return err
			}
			out := cmd.Root().Writer
			fmt.Fprintf(out, "uploaded %d/%d questions\n%s\n", rep.Uploaded, rep.Total, rep.QuizURL)
			for _, f := range rep.Failed {
				fmt.Fprintln(out, "  failed:", f)
			}
			return nil
		},
	}
}

func titleFor(title, file string) string {
	if title != "" {
		return title
	}
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
