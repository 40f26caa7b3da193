package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/harrybrwn/pqkey/cli"
	"github.com/harrybrwn/pqkey/internal"
	"github.com/spf13/cobra"
)

//go:generate sh -c "go run $(pwd)/$GOFILE ../../build"

func main() {
	var dir string
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if len(os.Args) < 2 {
		dir = cwd
	} else {
		dir = filepath.Join(cwd, os.Args[1])
	}

	compdir := filepath.Join(dir, "completion")
	if err = os.MkdirAll(compdir, 0755); err != nil {
		log.Fatal(err)
	}
	root := cli.New()

	for _, shell := range []string{
		"zsh",
		"bash",
		"powershell",
		"fish",
	} {
		if err = writeCompletion(root, filepath.Join(compdir, shell), shell); err != nil {
			log.Fatal(err)
		}
	}
}

func writeCompletion(root *cobra.Command, file, shell string) error {
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = internal.GenCompletion(root, f, shell); err != nil {
		return err
	}
	if shell == "zsh" {
		_, err = fmt.Fprintf(f, "\ncompdef _%[1]s %[1]s\n", root.Name())
	}
	return err
}
