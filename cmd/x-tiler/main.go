package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ItsNotGoodName/x-tiler/internal/api"
	"github.com/ItsNotGoodName/x-tiler/internal/build"
	"github.com/ItsNotGoodName/x-tiler/internal/bus"
	"github.com/ItsNotGoodName/x-tiler/internal/config"
	"github.com/ItsNotGoodName/x-tiler/internal/core"
	"github.com/ItsNotGoodName/x-tiler/internal/tiler"
	"github.com/ItsNotGoodName/x-tiler/internal/xserver"
	"github.com/ItsNotGoodName/x-tiler/mosaic"
	"github.com/ItsNotGoodName/x-tiler/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
)

type Options struct {
	Debug   bool   `doc:"enable debug"`
	Host    string `doc:"host to serve the inspection API on"`
	Port    int    `doc:"port to serve the inspection API on, 0 disables it" default:"0"`
	Config  string `doc:"config file" default:".x-tiler.yaml"`
	Display string `doc:"X display to manage, defaults to $DISPLAY"`
}

func main() {
	godotenv.Load()

	var options *Options
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		options = opts

		if opts.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			return serve(ctx, opts)
		})
	})

	root := cli.Root()
	root.Use = "x-tiler"
	root.Short = "Tiling window manager"
	root.Version = build.Current.Version
	root.AddCommand(
		newPreviewCommand(func() *Options { return options }),
		newConfigCommand(func() *Options { return options }),
	)

	cli.Run()
}

func serve(ctx context.Context, options *Options) error {
	bus.SetContext(ctx)

	configFilePath, err := filepath.Abs(options.Config)
	if err != nil {
		return err
	}

	store, err := config.NewStore(config.NewDriver(configFilePath))
	if err != nil {
		return err
	}

	if err := config.Normalize(store); err != nil {
		return err
	}

	super := sutureext.NewSimple("x-tiler")

	sutureext.Add(super, xserver.Service{
		Display: options.Display,
		Mosaic: func() (mosaic.Mosaic, error) {
			cfg, err := store.GetConfig()
			if err != nil {
				return mosaic.Mosaic{}, err
			}
			return cfg.Mosaic()
		},
		Observe: bus.Publish[tiler.Snapshot],
	})

	if options.Port > 0 {
		cache := api.NewCache()
		bus.Subscribe("api.Cache", cache.Update)
		hub := bus.NewHub[tiler.Snapshot]().Register()

		sutureext.Add(super, api.Service{
			Address: core.Address(options.Host, options.Port),
			Handler: api.NewHandler(api.NewServer(cache, hub)),
		})
	}

	return super.Serve(ctx)
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Exiting", "error", err)
				os.Exit(1)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
