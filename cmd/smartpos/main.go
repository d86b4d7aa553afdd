package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talkincode/smartpos/config"
	"github.com/talkincode/smartpos/internal/adminapi"
	"github.com/talkincode/smartpos/internal/app"
	"github.com/talkincode/smartpos/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "/etc/smartpos.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema")
)

var (
	BuildVersion = "dev"
	BuildTime    = ""
)

func printVersion() {
	fmt.Printf("smartpos %s %s\n", BuildVersion, BuildTime)
}

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}
	if *showVer {
		printVersion()
		os.Exit(0)
	}

	appConfig := config.LoadConfig(*conffile)

	application := app.NewApplication(appConfig)
	application.Init(appConfig)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	ws := webserver.Init(application)
	adminapi.InitRouter()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ws.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ws.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("server exited", zap.Error(err))
	}
}
