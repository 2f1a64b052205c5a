package ded

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type CLIConfig struct {
	Editor     string
	All        bool
	Verbose    bool
	Yes        bool
	No         bool
	DryRun     bool
	Globs      []string
	TmpPath    string
	Only       string
	Width      int
	ConfigPath string
	LogLevel   string
	Print      bool
	Clipboard  bool
	ApplyInput bool
	Completion string
}

var cfg = &CLIConfig{}

var rootCmd = &cobra.Command{
	Use:   "ded [DIR]",
	Short: "Rename and delete directory entries from your editor.",
	Long: `Write the entries of DIR to a listing, open it in your editor, then apply the
edits: change a name to rename the entry, clear it to remove the entry.

Patterns may use %n for a zero-padded counter and %% for a literal %.

Example: ded -m '*.jpg' ~/Pictures`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Completion != "" {
			return handleCompletion(cmd)
		}

		if cfg.Yes && cfg.No {
			return fmt.Errorf("--yes and --no are mutually exclusive")
		}
		if cfg.Print && cfg.ApplyInput {
			return fmt.Errorf("--print and --apply are mutually exclusive")
		}

		settings, err := LoadSettings(cfg.ConfigPath)
		if err != nil {
			return err
		}
		mergeFlags(cmd, settings)
		if err := settings.Validate(); err != nil {
			return err
		}

		if err := InitLogging(settings.LogLevel); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		defer SyncLogging()

		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		dir, err = ResolveDir(dir)
		if err != nil {
			return err
		}

		app := NewApp(buildConfig(dir, settings))
		summary, err := app.Execute()
		if err != nil {
			return err
		}
		if !summary.Empty() || summary.DryRun {
			fmt.Print(FormatSummary(summary))
		}
		return nil
	},
}

// mergeFlags lets explicitly set flags override the loaded settings.
func mergeFlags(cmd *cobra.Command, s *Settings) {
	changed := cmd.Flags().Changed
	if changed("editor") {
		s.Editor = cfg.Editor
	}
	if changed("tmp-path") {
		s.TmpPath = cfg.TmpPath
	}
	if changed("all") {
		s.All = cfg.All
	}
	if changed("verbose") {
		s.Verbose = cfg.Verbose
	}
	if changed("dry-run") {
		s.DryRun = cfg.DryRun
	}
	if changed("width") {
		s.HashWidth = cfg.Width
	}
	if changed("only") {
		s.Only = cfg.Only
	}
	if changed("log-level") {
		s.LogLevel = cfg.LogLevel
	}
}

func buildConfig(dir string, s *Settings) *Config {
	c := &Config{
		Dir:        dir,
		ScratchDir: s.TmpPath,
		Editor:     s.Editor,
		HashWidth:  s.HashWidth,
		ShowHidden: s.All,
		Verbose:    s.Verbose,
		DryRun:     s.DryRun,
		Globs:      cfg.Globs,
		Only:       Only(s.Only),
		Clipboard:  cfg.Clipboard,
	}

	switch {
	case cfg.Yes:
		answer := true
		c.DefaultAnswer = &answer
	case cfg.No:
		answer := false
		c.DefaultAnswer = &answer
	}

	switch {
	case cfg.Print:
		c.Mode = ModePrint
	case cfg.ApplyInput:
		c.Mode = ModeApply
	}
	return c
}

func handleCompletion(cmd *cobra.Command) error {
	switch cfg.Completion {
	case "bash":
		return cmd.Root().GenBashCompletion(os.Stdout)
	case "zsh":
		return cmd.Root().GenZshCompletion(os.Stdout)
	case "fish":
		return cmd.Root().GenFishCompletion(os.Stdout, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
	default:
		return fmt.Errorf("unsupported shell for completion: %s", cfg.Completion)
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&cfg.Completion, "completion", "", "Generate completion script")
	f.StringVarP(&cfg.Editor, "editor", "e", "", "Editor to use [defaults to $VISUAL, $EDITOR, or vi]")
	f.BoolVarP(&cfg.All, "all", "a", false, "Don't ignore hidden files and directories")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Add a comment with the kind and full path of each entry")
	f.BoolVarP(&cfg.Yes, "yes", "y", false, "Assume answer `yes' to all questions")
	f.BoolVarP(&cfg.No, "no", "n", false, "Assume answer `no' to all questions")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "Don't take any action, just show what would change")
	f.StringArrayVarP(&cfg.Globs, "match", "m", nil, "Glob to filter directory entries (repeatable)")
	f.StringVarP(&cfg.TmpPath, "tmp-path", "t", "", "Where to store the listing [defaults to $TMPDIR/ded]")
	f.StringVar(&cfg.Only, "only", "", "List only entries of the given kind: dirs | files")
	f.IntVarP(&cfg.Width, "width", "w", DefaultHashWidth, "Minimum identifier width")
	f.StringVar(&cfg.ConfigPath, "config", "", "Config file [defaults to $XDG_CONFIG_HOME/ded/config.yaml]")
	f.StringVar(&cfg.LogLevel, "log-level", "warn", "Diagnostics level: debug | info | warn | error")
	f.BoolVarP(&cfg.Print, "print", "p", false, "Print the listing instead of opening an editor")
	f.BoolVarP(&cfg.Clipboard, "clipboard", "c", false, "With --print, also copy the listing to the clipboard")
	f.BoolVar(&cfg.ApplyInput, "apply", false, "Apply an edited listing read from stdin or the clipboard")

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

func Execute() error {
	return rootCmd.Execute()
}
