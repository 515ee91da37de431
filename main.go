package main

import (
	"flag"
	"fmt"
	"os"
	_ "time/tzdata"
	"ytwatch/internal/di"
	"ytwatch/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "", "path to the yaml config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "log to the console as well as to files")
	flag.Parse()

	app, cleanup, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ytwatch: %s\n", err)
		os.Exit(1)
	}
	defer cleanup()
	_ = app
}
