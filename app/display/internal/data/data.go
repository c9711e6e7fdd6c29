package data

import (
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/wemind/app/analytics/pkg/dataservice"
	"github.com/iWorld-y/wemind/app/analytics/pkg/loader"
	drLogger "github.com/iWorld-y/wemind/app/analytics/pkg/logger"
	"github.com/iWorld-y/wemind/app/display/internal/conf"
)

type Data struct {
	loader *loader.Loader
}

func NewData(c *conf.Analytics, logger log.Logger) (*Data, func(), error) {
	if c == nil || c.BaseUrl == "" {
		return nil, nil, fmt.Errorf("analytics.base_url is not configured")
	}

	// 分析引擎使用自己的 logrus 日志
	level, file := "info", ""
	if c.Log != nil {
		level, file = c.Log.Level, c.Log.File
	}
	if err := drLogger.InitLogger(level, file); err != nil {
		log.NewHelper(logger).Errorf("Failed to init analytics logger: %v", err)
		_ = drLogger.InitLogger("info", "")
	}

	var timeout time.Duration
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid analytics.timeout %q: %w", c.Timeout, err)
		}
		timeout = d
	}

	client := dataservice.NewClient(dataservice.Options{
		BaseURL: c.BaseUrl,
		Timeout: timeout,
		QPS:     int(c.Qps),
		RPM:     int(c.Rpm),
	})

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
	}
	return &Data{loader: loader.New(client)}, cleanup, nil
}
