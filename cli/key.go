package cli

import (
	"fmt"
	"io"

	"github.com/harrybrwn/pqkey/address"
	"github.com/harrybrwn/pqkey/key"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newKeyCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "key",
		Short: "Generate, inspect and validate keys",
		Long: `Generate, inspect and validate keys.

Private keys can be given in wallet import format or as a hex
encoded scalar. Hex scalars use the configured network.`,
	}
	c.AddCommand(
		newKeyGenCmd(),
		newKeyInspectCmd(),
		newKeyPubCmd(),
		newKeyAddrCmd(),
		newKeyValidateCmd(),
	)
	return c
}

func newKeyGenCmd() *cobra.Command {
	var uncompressed bool
	c := &cobra.Command{
		Use:   "gen",
		Short: "Generate a new private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := configNetwork()
			if err != nil {
				return err
			}
			k, err := key.GeneratePrivateKey(key.WithNetwork(n))
			if err != nil {
				return err
			}
			if uncompressed {
				d := k.Descriptor()
				d.Compressed = false
				if k, err = key.NewPrivateKey(key.FromDescriptor{Descriptor: d}); err != nil {
					return err
				}
			}
			return printPrivateKey(cmd.OutOrStdout(), k, false)
		},
	}
	c.Flags().BoolVarP(&uncompressed, "uncompressed", "u", uncompressed, "use the uncompressed wallet import layout")
	return c
}

func newKeyInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <wif|hex>",
		Short: "Show the details of a private key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return newCommandErr("no private key given", cmd)
			}
			k, err := parsePrivateKey(args[0])
			if err != nil {
				return err
			}
			return printPrivateKey(cmd.OutOrStdout(), k, true)
		},
	}
}

func newKeyPubCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pub <wif|hex>",
		Short: "Print the DER encoded public key of a private key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return newCommandErr("no private key given", cmd)
			}
			k, err := parsePrivateKey(args[0])
			if err != nil {
				return err
			}
			pub, err := k.PublicKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pub.String())
			return nil
		},
	}
}

func newKeyAddrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addr <wif|hex|der-hex>",
		Short: "Print the address of a private or public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return newCommandErr("no key given", cmd)
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
}

func newKeyValidateCmd() *cobra.Command {
	var public bool
	c := &cobra.Command{
		Use:   "validate <input>",
		Short: "Check that a key is well formed",
		Long: `Check that a key is well formed.

Prints "valid" and exits with status 0, or prints the reason the key
was rejected and exits with status 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return newCommandErr("no key given", cmd)
			}
			opts, err := keyOptions()
			if err != nil {
				return err
			}
			if public {
				err = key.ValidatePublicKey(key.PublicFromText{Text: args[0]}, opts...)
			} else {
				err = key.ValidatePrivateKey(key.FromText{Text: args[0]}, opts...)
			}
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}
			kind, ok := key.KindOf(err)
			if !ok {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), kind)
			return &StatusError{Msg: err.Error(), Code: 1}
		},
	}
	c.Flags().BoolVarP(&public, "public", "p", public, "validate a DER hex public key")
	return c
}

func parsePrivateKey(s string) (*key.PrivateKey, error) {
	opts, err := keyOptions()
	if err != nil {
		return nil, err
	}
	k, err := key.NewPrivateKey(key.FromText{Text: s}, opts...)
	return k, errors.Wrap(err, "could not read private key")
}

// parseAddress reads a DER hex public key or a private key and returns
// its address.
func parseAddress(s string) (*address.Address, error) {
	n, err := configNetwork()
	if err != nil {
		return nil, err
	}
	if pub, err := key.PublicKeyFromHex(s); err == nil {
		return pub.Address(n)
	}
	k, err := parsePrivateKey(s)
	if err != nil {
		return nil, err
	}
	return k.Address(nil)
}

func printPrivateKey(w io.Writer, k *key.PrivateKey, details bool) error {
	addr, err := k.Address(nil)
	if err != nil {
		return err
	}
	if details {
		pub, err := k.PublicKey()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "network:    %s\n", k.Network())
		fmt.Fprintf(w, "compressed: %t\n", k.Compressed())
		fmt.Fprintf(w, "public key: %d bytes\n", len(pub.Bytes()))
	}
	fmt.Fprintf(w, "wif:        %s\n", k.WIF())
	fmt.Fprintf(w, "hex:        %s\n", k.String())
	fmt.Fprintf(w, "address:    %s\n", addr)
	return nil
}
