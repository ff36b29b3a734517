package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/automaxprocs/maxprocs"

	"OsmoTools/internal/cli"
	"OsmoTools/pkg/appcfg"
	"OsmoTools/pkg/logx"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "getwd: %v\n", err)
		os.Exit(2)
	}

	appConf, err := appcfg.Load(filepath.Join(cwd, "configs", "app.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config: %v (using defaults)\n", err)
		appConf = appcfg.Default()
	}

	app := cli.NewApp(appConf)
	if err := app.ConsoleLog(); err != nil {
		fmt.Fprintf(os.Stderr, "log init: %v\n", err)
		os.Exit(1)
	}
	defer logx.Close()

	if _, err := maxprocs.Set(maxprocs.Logger(logx.S().Infof)); err != nil {
		logx.S().Warnw("maxprocs", "err", err)
	}

	logx.S().Infow("osmotools started",
		"cwd", cwd,
		"lang", appConf.Language,
		"log_level", appConf.LogLevel,
		"hide_secrets_in_console", appConf.HideSecretsInConsole,
	)

	if err := cli.Execute(context.Background(), app); err != nil {
		logx.S().Errorw("osmotools failed", "err", err)
		logx.Close()
		os.Exit(cli.ExitCode(err))
	}
}
