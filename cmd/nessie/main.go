package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/valerio/go-nessie/nessie"
	"github.com/valerio/go-nessie/nessie/audio"
	"github.com/valerio/go-nessie/nessie/audio/wavsink"
	"github.com/valerio/go-nessie/nessie/backend"
	"github.com/valerio/go-nessie/nessie/backend/headless"
	"github.com/valerio/go-nessie/nessie/backend/sdl2"
	"github.com/valerio/go-nessie/nessie/backend/terminal"
	"github.com/valerio/go-nessie/nessie/display"
	"github.com/valerio/go-nessie/nessie/input"
	"github.com/valerio/go-nessie/nessie/statsview"
	"github.com/valerio/go-nessie/nessie/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "Nessie"
	app.Description = "A cycle-level NES emulator"
	app.Usage = "nessie [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the iNES ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Display backend: terminal or sdl2",
			Value: "terminal",
		},
		cli.StringFlag{
			Name:  "region",
			Usage: "Console region: ntsc or pal",
			Value: "ntsc",
		},
		cli.StringFlag{
			Name:  "pacing",
			Usage: "Frame pacing: adaptive, ticker or off",
			Value: string(timing.ModeAdaptive),
		},
		cli.IntFlag{
			Name:  "sample-rate",
			Usage: "Audio sample rate in Hz",
			Value: 44100,
		},
		cli.BoolFlag{
			Name:  "no-sound",
			Usage: "Disable APU emulation",
		},
		cli.StringFlag{
			Name:  "record-audio",
			Usage: "Record the audio output to a WAV file",
		},
		cli.IntFlag{
			Name:  "volume",
			Usage: "Master volume, 0 to 256",
			Value: 256,
		},
		cli.BoolFlag{
			Name:  "no-clip",
			Usage: "Show the full 256x240 picture instead of blanking the 8 pixel TV borders",
		},
		cli.BoolFlag{
			Name:  "statsview",
			Usage: "Serve runtime statistics on " + statsview.Address + " (needs -tags statsview)",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	opts, err := optionsFromFlags(c)
	if err != nil {
		return err
	}

	if c.Bool("statsview") {
		stop := statsview.Launch()
		defer stop()
	}

	b, limiter, err := selectBackend(c, romPath, opts)
	if err != nil {
		return err
	}

	var sinks []audio.Sink
	if p, ok := b.(backend.AudioProvider); ok && opts.EmulateSound {
		sinks = append(sinks, p.AudioSink())
	}
	if path := c.String("record-audio"); path != "" && opts.EmulateSound {
		wav, err := wavsink.New(path, opts.SampleRate)
		if err != nil {
			return err
		}
		defer func() {
			if err := wav.Close(); err != nil {
				slog.Error("Failed to close audio recording", "error", err)
			}
		}()
		sinks = append(sinks, wav)
	}
	if len(sinks) > 0 {
		opts.AudioSink = audio.MultiSink(sinks...)
	}

	console, err := nessie.NewWithFile(romPath, opts)
	if err != nil {
		return err
	}

	sampleRate := 0
	if opts.EmulateSound {
		sampleRate = opts.SampleRate
	}
	config := backend.BackendConfig{
		Title:         "Nessie - " + console.Cartridge().String(),
		Scale:         display.DefaultPixelScale,
		VSync:         true,
		SampleRate:    sampleRate,
		DebugProvider: console,
	}
	if err := b.Init(config); err != nil {
		return err
	}

	m := input.NewManager(console.Pads())
	console.RegisterActions(m)
	if h, ok := b.(backend.ActionHandler); ok {
		backend.RegisterActions(m, h)
	}

	runErr := backend.Run(console, b, m, limiter)
	console.Stop()
	if err := b.Cleanup(); err != nil {
		slog.Warn("Backend cleanup failed", "error", err)
	}

	// the terminal backend captured the default logger
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if msg := console.CrashMessage(); msg != "" {
		return errors.New(msg)
	}
	return runErr
}

func optionsFromFlags(c *cli.Context) (nessie.Options, error) {
	opts := nessie.DefaultOptions()

	region, err := nessie.ParseRegion(c.String("region"))
	if err != nil {
		return opts, err
	}
	opts.Region = region

	rate := c.Int("sample-rate")
	if rate <= 0 {
		return opts, fmt.Errorf("invalid sample rate %d", rate)
	}
	opts.SampleRate = rate

	volume := c.Int("volume")
	if volume < 0 || volume > 256 {
		return opts, fmt.Errorf("volume %d out of range 0..256", volume)
	}
	opts.MasterVolume = volume
	opts.EmulateSound = !c.Bool("no-sound")
	opts.ClipToTVSize = !c.Bool("no-clip")
	return opts, nil
}

// selectBackend builds the backend asked for on the command line and the
// limiter pacing it at the region's frame rate. Headless runs are
// unthrottled.
func selectBackend(c *cli.Context, romPath string, opts nessie.Options) (backend.Backend, timing.Limiter, error) {
	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, nil, errors.New("headless mode requires --frames option with a positive value")
		}

		headless.InstallLogger()
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, nil, err
		}
		return headless.New(frames, snapshots), timing.NewNoOpLimiter(), nil
	}

	limiter, err := timing.New(timing.Mode(c.String("pacing")), opts.Region.FrameRate())
	if err != nil {
		return nil, nil, err
	}
	switch name := c.String("backend"); name {
	case "terminal":
		return terminal.New(), limiter, nil
	case "sdl2":
		return sdl2.New(), limiter, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
}
