package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/wemind/app/analytics/pkg/config"
	"github.com/iWorld-y/wemind/app/analytics/pkg/dataservice"
	"github.com/iWorld-y/wemind/app/analytics/pkg/engine"
	"github.com/iWorld-y/wemind/app/analytics/pkg/export"
	"github.com/iWorld-y/wemind/app/analytics/pkg/heatmap"
	"github.com/iWorld-y/wemind/app/analytics/pkg/loader"
	"github.com/iWorld-y/wemind/app/analytics/pkg/logger"
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
)

var (
	confPath string
	window   int
	lookback int
	output   string

	cfg     *config.Config
	session *engine.Session
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "wemind",
		Short:        "WeMind 日记情绪分析",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}
	root.PersistentFlags().StringVarP(&confPath, "conf", "c", "app/analytics/configs/config.yaml", "config path")

	report := &cobra.Command{
		Use:   "report",
		Short: "打印统计、趋势、洞察与里程碑",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := window
			if w <= 0 {
				w = cfg.Analytics.TrendWindow
			}
			v := session.View(cmd.Context(), engine.Params{
				WindowDays:      w,
				HeatmapLookback: cfg.Analytics.HeatmapLookback,
			})
			renderReport(cmd.OutOrStdout(), v)
			return nil
		},
	}
	report.Flags().IntVarP(&window, "window", "w", 0, "trend window in days")

	hm := &cobra.Command{
		Use:   "heatmap",
		Short: "打印写作活跃度热力图",
		RunE: func(cmd *cobra.Command, args []string) error {
			lb := lookback
			if lb <= 0 {
				lb = cfg.Analytics.HeatmapLookback
			}
			snap := current(cmd.Context())
			renderHeatmap(cmd.OutOrStdout(), heatmap.Build(snap.Entries, lb, snap.FetchedAt))
			return nil
		},
	}
	hm.Flags().IntVarP(&lookback, "lookback", "l", 0, "lookback in days")

	exp := &cobra.Command{
		Use:   "export",
		Short: "导出全部日记为 CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := current(cmd.Context())
			if output == "" || output == "-" {
				return export.WriteCSV(cmd.OutOrStdout(), snap.Entries)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := export.WriteCSV(f, snap.Entries); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			logger.Log.Infof("已导出 %d 篇日记到 %s", len(snap.Entries), output)
			return nil
		},
	}
	exp.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")

	root.AddCommand(report, hm, exp)
	return root
}

// setup 加载配置、初始化日志并创建会话
func setup() error {
	c, err := config.LoadConfig(confPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("无法加载配置文件: %w", err)
		}
		c = &config.Config{}
		c.Defaults()
	}
	c.ApplyEnv()
	cfg = c

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}
	logger.Log.Debugf("数据服务地址: %s", cfg.Service.BaseURL)

	client := dataservice.NewClient(dataservice.Options{
		BaseURL: cfg.Service.BaseURL,
		Timeout: cfg.Service.RequestTimeout(),
		QPS:     cfg.Service.QPS,
		RPM:     cfg.Service.RPM,
	})
	session = engine.NewSession(loader.New(client), loader.Options{
		SentimentDays: cfg.Analytics.SentimentDays,
		EntryDays:     cfg.Analytics.EntryDays,
	})
	return nil
}

func current(ctx context.Context) *model.Snapshot {
	if snap := session.Snapshot(); snap != nil {
		return snap
	}
	snap := session.Refresh(ctx, loader.Options{
		SentimentDays: cfg.Analytics.SentimentDays,
		EntryDays:     cfg.Analytics.EntryDays,
	})
	for _, w := range snap.Warnings {
		logger.Log.Warn(w.Error())
	}
	return snap
}
