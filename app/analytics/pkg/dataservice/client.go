package dataservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
)

const (
	statsPath     = "/api/stats"
	sentimentPath = "/api/sentiment/data"
	entriesPath   = "/api/entries/recent"
)

// ErrUnsuccessful 服务端返回 success=false
var ErrUnsuccessful = errors.New("data service reported success=false")

// NetworkError 请求发送失败或返回非 200
type NetworkError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError 响应缺少 success 或期望字段，或无法解码
type MalformedResponseError struct {
	Endpoint string
	Reason   string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: malformed response: %s", e.Endpoint, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Options 客户端选项
type Options struct {
	BaseURL string
	Timeout time.Duration
	// QPS 作为突发上限，RPM 作为平均速率；RPM 为 0 表示不限速
	QPS int
	RPM int
}

// Client 日记数据服务 API 客户端
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient 创建一个新的数据服务客户端
func NewClient(opts Options) *Client {
	t := opts.Timeout
	if t == 0 {
		t = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RPM > 0 {
		burst := opts.QPS
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RPM)/60.0), burst)
	}

	return &Client{
		baseURL: opts.BaseURL,
		client:  &http.Client{Timeout: t},
		limiter: limiter,
	}
}

type statsEnvelope struct {
	Success    *bool        `json:"success"`
	Error      string       `json:"error"`
	Stats      *model.Stats `json:"stats"`
	Milestones []string     `json:"milestones"`
}

type sentimentEnvelope struct {
	Success       *bool                  `json:"success"`
	Error         string                 `json:"error"`
	SentimentData *model.SentimentSeries `json:"sentiment_data"`
	ActivityData  []string               `json:"activity_data"`
}

type entriesEnvelope struct {
	Success *bool                `json:"success"`
	Error   string               `json:"error"`
	Entries []model.JournalEntry `json:"entries"`
}

// FetchStats 获取 streak 等统计值以及已达成的里程碑名称
func (c *Client) FetchStats(ctx context.Context) (model.Stats, []string, error) {
	var env statsEnvelope
	if err := c.get(ctx, statsPath, nil, &env); err != nil {
		return model.Stats{}, nil, err
	}
	if err := checkEnvelope(statsPath, env.Success, env.Error); err != nil {
		return model.Stats{}, nil, err
	}
	if env.Stats == nil {
		return model.Stats{}, nil, &MalformedResponseError{Endpoint: statsPath, Reason: "missing stats"}
	}
	return *env.Stats, env.Milestones, nil
}

// FetchSentiment 获取最近 days 天的情绪序列
func (c *Client) FetchSentiment(ctx context.Context, days int) (model.SentimentSeries, error) {
	var env sentimentEnvelope
	if err := c.get(ctx, sentimentPath, daysQuery(days), &env); err != nil {
		return model.SentimentSeries{}, err
	}
	if err := checkEnvelope(sentimentPath, env.Success, env.Error); err != nil {
		return model.SentimentSeries{}, err
	}
	if env.SentimentData == nil {
		return model.SentimentSeries{}, &MalformedResponseError{Endpoint: sentimentPath, Reason: "missing sentiment_data"}
	}
	if err := env.SentimentData.Validate(); err != nil {
		return model.SentimentSeries{}, &MalformedResponseError{Endpoint: sentimentPath, Reason: "index alignment", Err: err}
	}
	return *env.SentimentData, nil
}

// FetchEntries 获取最近 days 篇日记
func (c *Client) FetchEntries(ctx context.Context, days int) ([]model.JournalEntry, error) {
	var env entriesEnvelope
	if err := c.get(ctx, entriesPath, daysQuery(days), &env); err != nil {
		return nil, err
	}
	if err := checkEnvelope(entriesPath, env.Success, env.Error); err != nil {
		return nil, err
	}
	if env.Entries == nil {
		return nil, &MalformedResponseError{Endpoint: entriesPath, Reason: "missing entries"}
	}
	return env.Entries, nil
}

func daysQuery(days int) url.Values {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	return q
}

func checkEnvelope(endpoint string, success *bool, msg string) error {
	if success == nil {
		return &MalformedResponseError{Endpoint: endpoint, Reason: "missing success"}
	}
	if !*success {
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", endpoint, ErrUnsuccessful, msg)
		}
		return fmt.Errorf("%s: %w", endpoint, ErrUnsuccessful)
	}
	return nil
}

// get 发送 GET 请求并把 JSON 响应解码到 out
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Endpoint: path, Err: err}
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: fmt.Errorf("invalid base URL: %w", err)}
	}
	u = u.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: fmt.Errorf("create request failed: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: fmt.Errorf("read body failed: %w", err)}
	}

	if res.StatusCode != http.StatusOK {
		return &NetworkError{Endpoint: path, StatusCode: res.StatusCode, Err: errors.New(truncate(string(body), 200))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &MalformedResponseError{Endpoint: path, Reason: "decode body", Err: err}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
