package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"interiorai/internal/appstate"
	"interiorai/internal/domain"
	"interiorai/internal/imagegen"
	"interiorai/internal/infra"
	"interiorai/internal/media"
	"interiorai/internal/persist"
	"interiorai/internal/storage"
)

const usage = `usage: interiorai [flags] <command> [args]

commands:
  status                 show the user, quota and gallery size
  styles                 list the style catalog
  pick <library|camera>  pick a photo and print its reference
  generate               generate a design (-image or -source, and -style)
  list                   list saved designs, newest first
  remove <id>            delete a saved design
  export <file.zip>      archive the gallery and its original photos
  reset                  wipe local data and start over as a new guest
`

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1:], os.Stdout); err != nil {
		stop()
		exitWithError(err)
	}
}

func run(ctx context.Context, cfg *infra.Config, logger zerolog.Logger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("interiorai", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		imageFlag  string
		sourceFlag string
		styleFlag  string
	)
	fs.StringVar(&imageFlag, "image", "", "image reference (file path, file:// or https URL)")
	fs.StringVar(&sourceFlag, "source", "", "pick the image from library or camera instead of -image")
	fs.StringVar(&styleFlag, "style", "modern", "style id to apply")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	if fs.NArg() == 0 {
		return errors.New(usage)
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	if cmd == "styles" {
		return writeJSON(out, domain.Styles)
	}

	kv, closeStore, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn().Err(err).Msg("close storage")
		}
	}()

	mgr, err := appstate.New(appstate.Options{
		Gateway:   persist.New(kv),
		Generator: imagegen.FromConfig(cfg, &logger),
		Picker: media.NewFilePicker(media.FilePickerOptions{
			LibraryDir: cfg.MediaLibraryDir,
			CameraDir:  cfg.CameraDir,
		}),
		Logger:         logger,
		FreeDailyLimit: cfg.FreeDailyLimit,
		QuotaWindow:    cfg.QuotaWindow,
	})
	if err != nil {
		return err
	}
	if err := mgr.Initialize(ctx); err != nil {
		return err
	}

	switch cmd {
	case "status":
		return writeStatus(out, mgr)
	case "list":
		return writeJSON(out, mgr.Designs())
	case "pick":
		if len(rest) != 1 {
			return errors.New("pick needs a source: library or camera")
		}
		ref, err := acquire(ctx, mgr, rest[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, ref)
		return err
	case "generate":
		image := strings.TrimSpace(imageFlag)
		if sourceFlag != "" {
			if image, err = acquire(ctx, mgr, sourceFlag); err != nil {
				return err
			}
		}
		if image == "" {
			return errors.New("generate needs -image or -source")
		}
		style := domain.NormalizeStyleID(styleFlag)
		if _, ok := domain.LookupStyle(style); !ok {
			logger.Warn().Str("style", style).Msg("style is not in the catalog")
		}
		design, err := mgr.RequestGeneration(ctx, image, style)
		if err != nil {
			return statusError(mgr, err)
		}
		return writeJSON(out, design)
	case "remove":
		if len(rest) != 1 {
			return errors.New("remove needs a design id")
		}
		before := len(mgr.Designs())
		mgr.RemoveDesign(ctx, rest[0])
		if len(mgr.Designs()) == before {
			logger.Info().Str("design", rest[0]).Msg("no saved design with that id")
		}
		return writeStatus(out, mgr)
	case "export":
		if len(rest) != 1 {
			return errors.New("export needs a destination file")
		}
		n, err := exportGallery(mgr, rest[0], time.Now(), logger)
		if err != nil {
			return err
		}
		logger.Info().Str("file", rest[0]).Int("entries", n).Msg("gallery exported")
		_, err = fmt.Fprintln(out, rest[0])
		return err
	case "reset":
		if err := mgr.Reset(ctx); err != nil {
			return err
		}
		return writeStatus(out, mgr)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func acquire(ctx context.Context, mgr *appstate.Manager, name string) (string, error) {
	source, err := media.ParseSource(name)
	if err != nil {
		return "", err
	}
	ref, err := mgr.AcquireImage(ctx, source)
	if err != nil {
		return "", statusError(mgr, err)
	}
	if ref == "" {
		return "", errors.New("no image selected")
	}
	return ref, nil
}

// statusError prefers the user-facing message the manager recorded.
func statusError(mgr *appstate.Manager, err error) error {
	if msg := mgr.Status().Error; msg != "" {
		return fmt.Errorf("%s (%w)", msg, err)
	}
	return err
}

type statusView struct {
	User      domain.User `json:"user"`
	Remaining *int        `json:"remainingToday,omitempty"`
	Designs   int         `json:"designs"`
}

func writeStatus(out io.Writer, mgr *appstate.Manager) error {
	snap := mgr.Snapshot()
	view := statusView{User: snap.User, Designs: len(snap.Designs)}
	if snap.User.IsFree() {
		remaining := max(mgr.FreeDailyLimit()-snap.User.UsageCount, 0)
		view.Remaining = &remaining
	}
	return writeJSON(out, view)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
