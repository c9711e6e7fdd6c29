package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Log       LogConfig       `yaml:"log"`
}

// ServiceConfig 远端日记数据服务配置
type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout 单次请求超时，单位秒
	Timeout int `yaml:"timeout"`
	QPS     int `yaml:"qps"`
	RPM     int `yaml:"rpm"`
}

// AnalyticsConfig 分析参数
type AnalyticsConfig struct {
	TrendWindow     int `yaml:"trend_window"`
	SentimentDays   int `yaml:"sentiment_days"`
	EntryDays       int `yaml:"entry_days"`
	HeatmapLookback int `yaml:"heatmap_lookback"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LoadConfig 从指定路径加载配置并补齐默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Defaults()
	return &cfg, nil
}

// Defaults 为未设置的字段填默认值
func (c *Config) Defaults() {
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = "http://localhost:5000"
	}
	if c.Service.Timeout <= 0 {
		c.Service.Timeout = 30
	}
	if c.Analytics.TrendWindow <= 0 {
		c.Analytics.TrendWindow = 7
	}
	if c.Analytics.SentimentDays <= 0 {
		c.Analytics.SentimentDays = 30
	}
	if c.Analytics.HeatmapLookback <= 0 {
		c.Analytics.HeatmapLookback = 365
	}
	if c.Analytics.EntryDays <= 0 {
		c.Analytics.EntryDays = c.Analytics.HeatmapLookback + 7
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ApplyEnv 读取 .env（若存在）并用环境变量覆盖配置
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("WEMIND_BASE_URL"); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv("WEMIND_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// RequestTimeout 单次请求超时
func (c ServiceConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
