package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/wemind/app/display/internal/conf"
	"github.com/iWorld-y/wemind/app/display/internal/data"
	"github.com/iWorld-y/wemind/app/display/internal/domain"
	"github.com/iWorld-y/wemind/app/display/internal/server"
	"github.com/iWorld-y/wemind/app/display/internal/service"
	"github.com/iWorld-y/wemind/app/display/internal/usecase"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "wemind-display"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/display/configs/config.yaml", "config path, eg: -conf config.yaml")
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}

// initApp 按依赖顺序组装 data -> usecase -> service -> server
func initApp(cs *conf.Server, ca *conf.Analytics, logger log.Logger) (*kratos.App, func(), error) {
	d, cleanup, err := data.NewData(ca, logger)
	if err != nil {
		return nil, nil, err
	}
	snapshots := data.NewSnapshotRepo(d, logger)
	uc := usecase.NewAnalyticsUseCase(snapshots, domain.Defaults{
		TrendWindow:     orDefault(ca.TrendWindow, 7),
		SentimentDays:   orDefault(ca.SentimentDays, 30),
		EntryDays:       orDefault(ca.EntryDays, 372),
		HeatmapLookback: orDefault(ca.HeatmapLookback, 365),
	}, logger)
	svc := service.NewAnalyticsService(uc, logger)
	hs := server.NewHTTPServer(cs, svc, logger)
	return newApp(logger, hs), cleanup, nil
}

func orDefault(v int32, def int) int {
	if v <= 0 {
		return def
	}
	return int(v)
}

func main() {
	flag.Parse()
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	app, cleanup, err := initApp(bc.Server, bc.Analytics, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}
