package main

import (
	"os"

	"golang.org/x/exp/slog"
)

func main() {
	slog.SetDefault(slog.New(NewLogHandler(os.Stdout, nil)))

	config_file := "./config.yaml"
	if len(os.Args) > 1 {
		config_file = os.Args[1]
	}
	config := ReadConfig(config_file)

	if err := RunPipeline(config); err != nil {
		slog.Error("pipeline failed: " + err.Error())
		os.Exit(1)
	}
	slog.Info("pipeline finished")
}
