package main

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/purg-com/pleroma-iss/internal/config"
	"github.com/purg-com/pleroma-iss/internal/logger"
)

// envKeyReplacer maps nested keys such as hacks.underlay to ISS_HACKS_UNDERLAY.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// settingsFlags binds settings keys to the persistent flags overriding them.
var settingsFlags = map[string]string{
	"log_level":           "log-level",
	"human_readable":      "human",
	"parallel":            "parallel",
	"ultimate_background": "ultimate-background",
	"resource_dir":        "resource-dir",
	"palette":             "palette",
	"style":               "style",
	"theme":               "theme",
	"hacks.underlay":      "underlay",
}

type rootOptions struct {
	fs         afero.Fs
	viper      *viper.Viper
	configPath string
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithFs(afero.NewOsFs())
}

func newRootCmdWithFs(fs afero.Fs) *cobra.Command {
	opts := &rootOptions{fs: fs, viper: newViper(fs)}

	cmd := &cobra.Command{
		Use:           "isscompile",
		Short:         "isscompile resolves interface stylesheets into concrete theme rules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := config.DefaultSettings()
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Settings file (yaml, json or toml)")
	flags.String("log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	flags.Bool("human", defaults.HumanReadable, "Write human readable logs")
	flags.IntP("parallel", "p", defaults.Parallel, "Lazy subtrees resolved at once")
	flags.String("ultimate-background", defaults.UltimateBackground, "Colour behind the lowest layer")
	flags.String("resource-dir", defaults.ResourceDir, "Directory holding palettes/, styles/ and themes/")
	flags.String("palette", "", "Palette name, or \"stock\"")
	flags.String("style", "", "Style name, or \"stock\"")
	flags.String("theme", "", "Legacy theme name, used when no palette or style is chosen")
	flags.String("underlay", "", "Underlay mode: none, opaque or transparent")

	bindErr := bindSettingsFlags(opts.viper, flags)
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		if bindErr != nil {
			return newCommandError("bind flags", "persistent flags", bindErr, "This is a bug; please report it.")
		}
		return nil
	}

	cmd.AddCommand(newCompileCmd(opts))
	cmd.AddCommand(newPaletteCmd(opts))
	cmd.AddCommand(newConvertCmd(opts))
	cmd.AddCommand(newComponentsCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// bindSettingsFlags lets each flag in settingsFlags override its settings key.
func bindSettingsFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range settingsFlags {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("flag --%s for setting %q is not defined", name, key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding --%s to %q: %w", name, key, err)
		}
	}
	return nil
}

func newViper(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix("ISS")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	defaults := config.DefaultSettings()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("human_readable", defaults.HumanReadable)
	v.SetDefault("parallel", defaults.Parallel)
	v.SetDefault("ultimate_background", defaults.UltimateBackground)
	v.SetDefault("resource_dir", defaults.ResourceDir)
	v.SetDefault("palette", "")
	v.SetDefault("style", "")
	v.SetDefault("theme", "")
	v.SetDefault("hacks.underlay", "")
	v.SetDefault("hacks.fonts", map[string]string{})
	return v
}

// settings merges defaults, the settings file, ISS_* environment variables
// and flags, in increasing priority.
func (o *rootOptions) settings() (*config.Settings, error) {
	if o.configPath != "" {
		o.viper.SetConfigFile(o.configPath)
		if err := o.viper.ReadInConfig(); err != nil {
			return nil, newCommandError("load settings", o.configPath, err, "Check that the file exists and is valid YAML, JSON or TOML.")
		}
	}

	var s config.Settings
	if err := o.viper.Unmarshal(&s); err != nil {
		return nil, newCommandError("load settings", "decoding merged settings", err, "Check the types of the values in your settings file.")
	}
	if err := config.ValidateSettings(&s); err != nil {
		return nil, newCommandError("load settings", "validating settings", err, "Fix the reported field and try again.")
	}
	return &s, nil
}

// setup loads settings and builds the logger every command writes to.
func (o *rootOptions) setup(cmd *cobra.Command) (*config.Settings, *logger.Logger, error) {
	s, err := o.settings()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Options{
		Level:         s.LogLevel,
		HumanReadable: s.HumanReadable,
		Writer:        cmd.ErrOrStderr(),
		Component:     cmd.Name(),
	})
	if err != nil {
		return nil, nil, newCommandError("create logger", s.LogLevel, err, "Use one of debug, info, warn or error.")
	}
	return s, log, nil
}
