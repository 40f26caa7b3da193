package cli

import (
	"fmt"

	"github.com/harrybrwn/pqkey/internal/logging"
	"github.com/harrybrwn/pqkey/key"
	"github.com/harrybrwn/pqkey/key/wallet"
	"github.com/harrybrwn/pqkey/keystore"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newWalletCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "wallet",
		Short: "Manage stored private keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *keystore.Store) error {
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				style := table.StyleDefault
				style.Options = table.OptionsNoBordersAndSeparators
				t.SetStyle(style)
				t.AppendHeader(table.Row{"name", "network", "address"})

				it := s.Iter()
				for it.Next() {
					k := it.Key()
					addr, err := k.Address(nil)
					if err != nil {
						it.Close()
						return err
					}
					t.AppendRow(table.Row{it.Name(), k.Network(), addr})
				}
				if err := it.Close(); err != nil {
					return err
				}
				t.Render()
				return nil
			})
		},
	}
	c.AddCommand(
		newWalletGenCmd(),
		newWalletImportCmd(),
		newWalletExportCmd(),
		newWalletDeleteCmd(),
	)
	return c
}

func newWalletGenCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "gen <name>",
		Short:   "Generate and store a new private key",
		Aliases: []string{"gen-pair"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return newCommandErr("no wallet name given", cmd)
			}
			n, err := configNetwork()
			if err != nil {
				return err
			}
			k, err := key.GeneratePrivateKey(key.WithNetwork(n))
			if err != nil {
				return err
			}
			return storeKey(cmd, args[0], k)
		},
	}
}

func newWalletImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <name> <wif|hex|->",
		Short: "Store an existing private key",
		Long: `Store an existing private key.

Use "-" to read a PEM encoded wallet from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return newCommandErr("need a wallet name and a key", cmd)
			}
			var (
				k   *key.PrivateKey
				err error
			)
			if args[1] == "-" {
				opts, err := keyOptions()
				if err != nil {
					return err
				}
				w, err := wallet.Read(cmd.InOrStdin(), opts...)
				if err != nil {
					return errors.Wrap(err, "could not read wallet")
				}
				k = w.PrivateKey()
			} else if k, err = parsePrivateKey(args[1]); err != nil {
				return err
			}
			return storeKey(cmd, args[0], k)
		},
	}
}

func newWalletExportCmd() *cobra.Command {
	var pemOut bool
	c := &cobra.Command{
		Use:   "export <name>",
		Short: "Print a stored private key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return newCommandErr("no wallet name given", cmd)
			}
			return withStore(func(s *keystore.Store) error {
				k, err := s.Get(args[0])
				if err != nil {
					return err
				}
				if pemOut {
					_, err = wallet.FromKey(k, args[0]).WriteTo(cmd.OutOrStdout())
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), k.WIF())
				return nil
			})
		},
	}
	c.Flags().BoolVar(&pemOut, "pem", pemOut, "export as a PEM encoded wallet")
	return c
}

func newWalletDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Short:   "Delete a stored private key",
		Aliases: []string{"rm"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return newCommandErr("no wallet name given", cmd)
			}
			return withStore(func(s *keystore.Store) error {
				if err := s.Delete(args[0]); err != nil {
					return err
				}
				walletLog().Infof("deleted %q", args[0])
				return nil
			})
		},
	}
}

func storeKey(cmd *cobra.Command, name string, k *key.PrivateKey) error {
	return withStore(func(s *keystore.Store) error {
		if err := s.Put(name, k); err != nil {
			return err
		}
		addr, err := k.Address(nil)
		if err != nil {
			return err
		}
		walletLog().WithField("network", k.Network().Name).Infof("stored %q", name)
		fmt.Fprintln(cmd.OutOrStdout(), addr)
		return nil
	})
}

func withStore(fn func(*keystore.Store) error) (err error) {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if e := s.Close(); err == nil {
			err = e
		}
	}()
	return fn(s)
}

func walletLog() *logrus.Logger {
	return logging.Domain("wallet", logrus.StandardLogger().Level)
}
