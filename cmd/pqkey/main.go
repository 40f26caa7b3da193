package main

import (
	"context"
	"fmt"
	"os"

	"github.com/harrybrwn/pqkey/cli"
	log "github.com/sirupsen/logrus"
)

func main() {
	cmd := cli.New()
	err := cmd.ExecuteContext(context.Background())

	if err != nil {
		os.Exit(handle(err))
	}
}

func handle(err error) int {
	Errorf := log.Errorf
	if cli.Flags.Silent {
		Errorf = func(format string, v ...interface{}) {
			fmt.Fprintf(os.Stderr, format, v...)
		}
	}
	switch e := err.(type) {
	case *cli.CommandError:
		Errorf(
			"%s\n\nUsage: %s\n",
			e.Msg, e.Use,
		)
	case *cli.StatusError:
		Errorf("Error: %s\n", e.Error())
		return e.Code
	default:
		Errorf("Error: %v\n", err)
	}
	return 1
}
