package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/lixenwraith/marquee/audio"
	"github.com/lixenwraith/marquee/config"
	"github.com/lixenwraith/marquee/constants"
	"github.com/lixenwraith/marquee/core"
	"github.com/lixenwraith/marquee/engine"
	"github.com/lixenwraith/marquee/service"
	"github.com/lixenwraith/marquee/terminal"
)

func addConsoleFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.String("text", def.Text, "banner text")
	f.Int("height", def.Height, "rows in the bounce region")
	f.Duration("delay", def.Delay, "delay between frames")
	f.Int("width", def.Width, "columns in the bounce region, 0 uses the terminal width")
	f.String("backend", def.Backend, "terminal backend: ansi or tcell")
	f.Bool("sound", def.Sound, "play a click on every bounce")
	f.Float64("volume", def.Volume, "click volume, 0..1")
	f.String("log-file", def.Log.File, "write logs to this file (rotated at 10MB)")
	f.String("log-level", def.Log.Level, "log level: trace, debug, info, warn, error")
}

func runConsole(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	ctx := pslog.ContextWithLogger(cmd.Context(), logger)

	hub := service.NewHub()
	termSvc := terminal.NewService()
	sound := audio.NewService(termSvc.Name())
	for _, svc := range []service.Service{termSvc, sound} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.InitAll(map[string][]any{
		termSvc.Name(): {cfg.Backend},
		sound.Name():   {!cfg.Sound, cfg.Volume},
	}); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	term := termSvc.Terminal()
	core.SetCrashTerminal(term)

	// StopAll is a no-op once the services are stopped below
	defer func() {
		core.SetCrashTerminal(nil)
		hub.StopAll()
	}()

	if err := sound.Err(); err != nil {
		logger.Warn("audio unavailable, continuing muted", "err", err)
	}

	console := engine.NewConsole(term, engine.Options{
		Text:         cfg.Text,
		Height:       cfg.Height,
		Width:        cfg.Width,
		Delay:        cfg.Delay,
		HistoryLimit: constants.HistoryLimit,
	})
	console.SetSounder(sound)

	runErr := console.Run(ctx)

	// Leave the alternate screen before printing so the message stays visible
	core.SetCrashTerminal(nil)
	if err := hub.StopAll(); err != nil {
		logger.Warn("service shutdown failed", "err", err)
	}
	if runErr != nil {
		return runErr
	}
	fmt.Fprintln(cmd.OutOrStdout(), constants.ExitMessage)
	return nil
}
