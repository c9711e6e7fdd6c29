package conf

type Bootstrap struct {
	Server    *Server
	Analytics *Analytics
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

// Analytics 分析引擎与远端数据服务配置
type Analytics struct {
	BaseUrl         string `json:"base_url"`
	Timeout         string `json:"timeout"`
	Qps             int32  `json:"qps"`
	Rpm             int32  `json:"rpm"`
	TrendWindow     int32  `json:"trend_window"`
	SentimentDays   int32  `json:"sentiment_days"`
	EntryDays       int32  `json:"entry_days"`
	HeatmapLookback int32  `json:"heatmap_lookback"`
	Log             *Log   `json:"log"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}
