package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrybrwn/pqkey/internal/logging"
	"github.com/harrybrwn/pqkey/key"
	"github.com/harrybrwn/pqkey/keystore"
	"github.com/harrybrwn/pqkey/network"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configDirName = "pqkey"
)

func configDir() string {
	var dir string
	if dir = os.Getenv("PQKEY_CONFIG"); dir != "" {
		return dir
	} else if dir = os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		dir = filepath.Join(dir, configDirName)
	} else if dir = os.Getenv("HOME"); dir != "" {
		dir = filepath.Join(dir, "."+configDirName)
	} else if dir = os.Getenv("USERPROFILE"); dir != "" {
		dir = filepath.Join(dir, "."+configDirName)
	}
	if dir == "" {
		dir = "./." + configDirName
	}
	return dir
}

func storeDir() string {
	dir := viper.GetString("store")
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(viper.GetString("config"), dir)
}

// configNetwork resolves the configured network name.
func configNetwork() (*network.Network, error) {
	name := viper.GetString("network")
	n := network.Default().Get(name)
	if n == nil {
		return nil, &StatusError{
			Msg:  fmt.Sprintf("unknown network %q, use one of %v", name, networkNames()),
			Code: 2,
		}
	}
	return n, nil
}

// keyOptions are the options used to read keys given on the
// command line.
func keyOptions() ([]key.Option, error) {
	n, err := configNetwork()
	if err != nil {
		return nil, err
	}
	return []key.Option{key.WithDefaultNetwork(n)}, nil
}

func openStore() (*keystore.Store, error) {
	opts, err := keyOptions()
	if err != nil {
		return nil, err
	}
	dir := storeDir()
	if err = mkdir(dir); err != nil {
		return nil, err
	}
	return keystore.Open(dir,
		keystore.WithLogger(logging.Prefixed("keystore", viper.GetBool("nocolor"))),
		keystore.WithKeyOptions(opts...),
	)
}

func networkNames() []string {
	return network.Default().Names()
}

type usable interface {
	UseLine() string
	UsageString() string
}

func newCommandErr(msg string, cmd usable) error {
	return &CommandError{Msg: msg, Use: cmd.UseLine()}
}

// CommandError is an error returned by cli commands
type CommandError struct {
	Msg, Use string
}

func (ce *CommandError) Error() string {
	return ce.Msg
}

func mkdir(d string) error {
	err := os.MkdirAll(d, 0700)
	if err != nil {
		return fmt.Errorf("could not create %s: %v", d, err)
	}
	return nil
}

func hideFlagNames(set *pflag.FlagSet, names ...string) {
	for _, n := range names {
		set.MarkHidden(n)
	}
}

var allLogLevels = allLogLevelsStr()

func allLogLevelsStr() []string {
	s := make([]string, len(log.AllLevels))
	for i, l := range log.AllLevels {
		s[i] = l.String()
	}
	return s
}
