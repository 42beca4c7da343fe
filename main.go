package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/coursebuddy/app"
	"github.com/miosa/coursebuddy/client"
	"github.com/miosa/coursebuddy/config"
	"github.com/miosa/coursebuddy/logx"
	"github.com/miosa/coursebuddy/session"
	"github.com/miosa/coursebuddy/style"
)

var version = "dev"

func main() {
	profileFlag := flag.String("profile", "", "Named profile for state isolation (~/.coursebuddy/profiles/<name>)")
	urlFlag := flag.String("url", "", "Backend base URL (overrides COURSEBUDDY_URL and the profile)")
	envFile := flag.String("env-file", ".env", "Optional dotenv file")
	themeFlag := flag.String("theme", "", "Set and remember the color theme (dark, light, catppuccin)")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.BoolVar(showVersion, "V", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("coursebuddy %s\n", version)
		os.Exit(0)
	}

	if *noColor {
		lipgloss.SetColorProfile(0)
	}

	env, err := config.LoadEnv(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "coursebuddy: %v\n", err)
		os.Exit(1)
	}

	home, _ := os.UserHomeDir()
	profileDir := filepath.Join(home, ".coursebuddy")
	if *profileFlag != "" {
		profileDir = filepath.Join(home, ".coursebuddy", "profiles", *profileFlag)
	}
	os.MkdirAll(profileDir, 0o755) //nolint:errcheck

	logFile, err := logx.OpenFile(filepath.Join(profileDir, "coursebuddy.log"))
	if err != nil {
		logx.Discard()
	} else {
		defer logFile.Close()
		logx.Init(logx.Options{
			Environment: logx.Environment(env.Environment),
			Level:       env.LogLevel,
			Output:      logFile,
		})
	}

	if *themeFlag != "" {
		if err := style.SetTheme(*themeFlag); err != nil {
			fmt.Fprintf(os.Stderr, "coursebuddy: %v\n", err)
			os.Exit(2)
		}
		if err := config.SaveTheme(profileDir, *themeFlag); err != nil {
			logx.Warn().Err(err).Msg("theme not saved")
		}
	}

	cfg := config.Resolve(config.Load(profileDir), env)
	if *urlFlag != "" {
		cfg.BackendURL = *urlFlag
	}
	if *themeFlag != "" {
		cfg.Theme = *themeFlag
	}

	if err := style.SetTheme(config.ThemeFor(cfg, lipgloss.HasDarkBackground())); err != nil {
		logx.Warn().Err(err).Msg("falling back to dark theme")
		style.SetTheme("dark") //nolint:errcheck
	}

	c := client.New(cfg.BackendURL)
	c.SetTimeout(env.RequestTimeout)
	ctrl := session.New(c)
	defer ctrl.Close()

	logx.Info().Str("backend", cfg.BackendURL).Str("version", version).Msg("starting")

	m := app.New(ctrl, c)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		p.Send(app.ProgramReady{Program: p})
	}()

	if _, err := p.Run(); err != nil {
		logx.Error().Err(err).Msg("program exited")
		fmt.Fprintf(os.Stderr, "coursebuddy: %v\n", err)
		ctrl.Close()
		os.Exit(1)
	}
}
