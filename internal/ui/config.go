package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/config"
	"github.com/javiermolinar/venuegrid/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.
Business hours are managed with 'venuegrid hours'.

Example:
  venuegrid config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runConfigInteractive()
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().SaveTo(path); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.out, "Created %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Run: func(_ *cobra.Command, _ []string) {
			printConfig(a.out, a.config)
		},
	})
	return cmd
}

func (a *App) runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	_, _ = fmt.Fprintf(a.out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		_, _ = fmt.Fprintln(a.out, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		_, _ = fmt.Fprintf(a.out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(a.out, cfg)

	// Ask if user wants to edit
	reader := bufio.NewReader(os.Stdin)
	if !promptYesNo(reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Grid.Interval = promptInt(reader, "Slot interval in minutes", cfg.Grid.Interval)
	cfg.Grid.Orientation = promptValue(reader, "Orientation (horizontal, vertical)", cfg.Grid.Orientation)
	cfg.Grid.SlotSize = promptValue(reader, "Slot size (tiny, small, medium, large, huge)", cfg.Grid.SlotSize)
	cfg.Storage.Backend = promptValue(reader, "Storage backend (sqlite, api)", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendAPI {
		cfg.API.BaseURL = promptValue(reader, "Booking API base URL", cfg.API.BaseURL)
		cfg.Redis.Address = promptValue(reader, "Redis address for the read cache (empty to disable)", cfg.Redis.Address)
	} else {
		cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	}
	cfg.Log.Level = promptValue(reader, "Log level (debug, info, warn, error)", cfg.Log.Level)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	_, _ = fmt.Fprintln(a.out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(w, format, args...) }

	p("Current configuration:\n")
	p("──────────────────────\n")
	p("[hours]\n")
	for _, day := range []struct {
		name string
		h    fmt.Stringer
	}{
		{"monday", cfg.Hours.Monday},
		{"tuesday", cfg.Hours.Tuesday},
		{"wednesday", cfg.Hours.Wednesday},
		{"thursday", cfg.Hours.Thursday},
		{"friday", cfg.Hours.Friday},
		{"saturday", cfg.Hours.Saturday},
		{"sunday", cfg.Hours.Sunday},
	} {
		p("  %-16s = %s\n", day.name, day.h)
	}
	if n := len(cfg.Hours.Overrides); n > 0 {
		p("  overrides        = %d\n", n)
	}
	p("\n[grid]\n")
	p("  interval         = %d\n", cfg.Grid.Interval)
	p("  orientation      = %s\n", cfg.Grid.Orientation)
	p("  slot_size        = %s\n", cfg.Grid.SlotSize)
	p("  drag_threshold   = %g\n", cfg.Grid.DragThreshold)
	p("\n[storage]\n")
	p("  backend          = %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendAPI {
		p("\n[api]\n")
		p("  base_url         = %s\n", cfg.API.BaseURL)
		p("  retries          = %d\n", cfg.API.Retries)
		if cfg.Redis.Address != "" {
			p("\n[redis]\n")
			p("  address          = %s\n", cfg.Redis.Address)
			p("  ttl_seconds      = %d\n", cfg.Redis.TTLSeconds)
		}
	} else {
		p("  db_path          = %s\n", cfg.Storage.DBPath)
	}
	p("\n[log]\n")
	p("  level            = %s\n", cfg.Log.Level)
	p("  format           = %s\n", cfg.Log.Format)
	p("\n[ui]\n")
	p("  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(reader *bufio.Reader, question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			return n
		}
		fmt.Printf("  Invalid number %q.\n", value)
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
