package cli

import (
	"io"
	stdlog "log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrybrwn/pqkey/internal"
	"github.com/harrybrwn/pqkey/internal/logging"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is the command line configuration structure
type Config struct {
	// Network is the name of the network used for keys that do not
	// carry one.
	Network string `mapstructure:"network"`

	// LogLevel will set the log level for all logs that are
	// written to standard out
	LogLevel string `mapstructure:"loglevel"`
	NoColor  bool   `mapstructure:"nocolor"`

	// Config is the config directory used for the cli
	Config string `mapstructure:"config"`
	// Store is the key store directory. Relative paths are
	// inside the config directory.
	Store  string `mapstructure:"store"`
	Editor string `mapstructure:"editor"`
}

// GlobalFlags are the cli's global persistent flags
type GlobalFlags struct {
	Silent bool
}

// Flags holds the global flags of the last command created with New.
var Flags GlobalFlags

// New returns a new 'pqkey' root command
func New() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("PQKEY")
	viper.AutomaticEnv()
	viper.BindEnv("editor", "EDITOR")
	viper.SetDefault("network", "livenet")
	viper.SetDefault("loglevel", "info")
	viper.SetDefault("nocolor", false)
	viper.SetDefault("config", configDir())
	viper.SetDefault("store", "keys")
	log.SetReportCaller(false)

	var (
		trace   bool
		globals = &Flags
	)

	c := &cobra.Command{
		Use:   "pqkey",
		Short: "pqkey manages post-quantum private keys, public keys and addresses",
		Long: `pqkey manages post-quantum private keys, public keys and addresses.

Private keys are moved around in wallet import format, public keys
in their DER encoding, and addresses are the base58check encoded
hash of the public key.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if trace {
				viper.Set("loglevel", "trace")
			}
			conf, err := readConfig()
			if err != nil {
				return err
			}
			return cliPreRun(conf, globals)
		},
	}

	flags := c.PersistentFlags()
	flags.StringP("loglevel", "l", viper.GetString("loglevel"), "set the app's logging level")
	flags.BoolVarP(&globals.Silent, "silent", "s", globals.Silent, "do not print log messages to stdout")
	flags.StringP("network", "n", viper.GetString("network"), "network used for keys that do not carry one")
	flags.StringP("config", "c", "", "set the app's config directory")
	flags.Bool("nocolor", false, "disable all terminal colors")
	flags.BoolVarP(&trace, "trace", "t", trace, "")
	hideFlagNames(flags, "trace")
	for _, name := range []string{"loglevel", "network", "config", "nocolor"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	c.RegisterFlagCompletionFunc("loglevel", func(
		*cobra.Command, []string, string,
	) ([]string, cobra.ShellCompDirective) {
		return allLogLevels, cobra.ShellCompDirectiveNoSpace
	})
	c.RegisterFlagCompletionFunc("network", func(
		*cobra.Command, []string, string,
	) ([]string, cobra.ShellCompDirective) {
		return networkNames(), cobra.ShellCompDirectiveNoFileComp
	})

	c.AddCommand(
		newKeyCmd(),
		newWalletCmd(),
		newConfigCmd(),
		newVersionCmd(),
		logging.NewLogCmd(LogFile),
		newCompletionCmd(),
	)
	return c
}

// readConfig reads the config file in the config directory, creating
// an empty one if it does not exist, and returns the merged config.
func readConfig() (*Config, error) {
	dir := viper.GetString("config")
	if dir != "" {
		if err := mkdir(dir); err != nil {
			return nil, err
		}
		file := filepath.Join(dir, "config.yml")
		viper.SetConfigFile(file)
		err := viper.ReadInConfig()
		if os.IsNotExist(errors.Cause(err)) || isConfigNotFound(err) {
			f, e := os.OpenFile(file, os.O_CREATE, 0600)
			if e != nil {
				return nil, errors.Wrap(e, "could not create config file")
			}
			f.Close()
		} else if err != nil {
			return nil, errors.Wrap(err, "could not read config")
		}
	}
	conf := &Config{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return conf, nil
}

func isConfigNotFound(err error) bool {
	_, ok := err.(viper.ConfigFileNotFoundError)
	return ok
}

var (
	version = "dev"
	date    string
	commit  string
	hash    string
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show the command version",
		Aliases: []string{"v"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			if version == "dev" {
				cmd.Printf("%s development version\n", root.Name())
				return nil
			}
			cmd.Printf("%s version %s\n", root.Name(), version)
			cmd.Printf("date:   %s\n", date)
			cmd.Printf("commit: %s\n", commit)
			if hash != "" {
				cmd.Printf("hash:   %s\n", hash)
			}
			return nil
		},
	}
}

// StatusError is an error that
// carries an exit status.
type StatusError struct {
	Msg  string
	Code int
}

func (se *StatusError) Error() string {
	return se.Msg
}

// LogFile is the command line program log file
var LogFile = &lumberjack.Logger{
	Filename:   filepath.Join(os.TempDir(), "pqkey-debug.log"),
	MaxSize:    500, // megabytes
	MaxBackups: 10,  // number of spare files
	MaxAge:     365, // days
	Compress:   false,
}

func cliPreRun(conf *Config, globals *GlobalFlags) error {
	// Set the actual filename
	LogFile.Filename = filepath.Join(conf.Config, "debug.log")
	format := &logging.PrefixedFormatter{
		TimeFormat: time.RFC3339,
		NoColor:    conf.NoColor,
	}
	stdlog.SetOutput(LogFile) // for other packages
	log.SetOutput(io.Discard)
	log.SetFormatter(format)
	log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
	log.AddHook(logging.NewLogFileHook(LogFile, &logging.PrefixedFormatter{
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}))

	level, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		defer log.Errorf(
			"bad loglevel '%s' use (%v)",
			conf.LogLevel,
			strings.Join(allLogLevels, "|"),
		)
		level = log.InfoLevel
	}

	// The logger writes to the log file
	// by default so we want all levels.
	log.SetLevel(log.TraceLevel)

	// This will prevent logging to the terminal
	if !globals.Silent {
		log.AddHook(&logging.Hook{
			Writer:    os.Stderr,
			LogLevels: log.AllLevels[:level+1],
		})
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	var edit, file, dir bool
	c := &cobra.Command{
		Use:     "config",
		Short:   "Manage program configuration",
		Aliases: []string{"conf"},
		RunE: func(cmd *cobra.Command, args []string) error {
			confdir := viper.GetString("config")
			f := viper.ConfigFileUsed()
			if f == "" {
				f = filepath.Join(confdir, "config.yml")
			}
			if file {
				cmd.Println(f)
				return nil
			}
			if dir {
				cmd.Println(confdir)
				return nil
			}

			if edit {
				editor := viper.GetString("editor")
				if editor == "" {
					return errors.New("no editor set (see $EDITOR)")
				}
				ex := exec.Command(editor, f)
				ex.Stdout = cmd.OutOrStdout()
				ex.Stderr = cmd.ErrOrStderr()
				ex.Stdin = cmd.InOrStdin()
				return ex.Run()
			}
			return cmd.Help()
		},
	}

	c.AddCommand(&cobra.Command{
		Use:   "get <key>...",
		Short: "Get a config variable",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, arg := range args {
				cmd.Println(viper.Get(arg))
			}
		},
	})
	flags := c.Flags()
	flags.BoolVarP(&edit, "edit", "e", edit, "edit the configuration file")
	flags.BoolVarP(&file, "file", "f", file, "print the filepath of the configuration file")
	flags.BoolVarP(&dir, "dir", "d", dir, "print the path of the configuration folder")
	return c
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a completion script to stdout.",
		Long: `Use the completion command to generate a script for shell
completion. Note: for zsh you will need to use the command
'compdef _pqkey pqkey' after you source the generated script.`,
		Example:   "$ source <(pqkey completion zsh)",
		ValidArgs: []string{"zsh", "bash", "ps", "powershell", "fish"},
		Aliases:   []string{"comp"},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				return newCommandErr("no shell type given", cmd)
			}
			return internal.GenCompletion(root, out, args[0])
		},
	}
}
