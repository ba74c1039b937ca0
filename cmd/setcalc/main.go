package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	setcalc "github.com/mohamadnahleh/set-calculator"
)

func main() {
	var args setcalc.Args
	arg.MustParse(&args)

	app, cleanup, err := setcalc.InitApp(&args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing setcalc: %v\n", err)
		os.Exit(1)
	}

	// ctrl+c cancels app.Shutdown and closes the history before exiting
	err = app.Run(app.Shutdown)
	cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
