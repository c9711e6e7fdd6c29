package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
)

// Header CSV 固定表头
const Header = "Date,Entry,Stress,Happiness,Energy"

var metricColumns = []model.Metric{model.Stress, model.Happiness, model.Energy}

// CSV 把日记按输入顺序序列化为完整的 CSV 文本
func CSV(entries []model.JournalEntry) string {
	var sb strings.Builder
	// strings.Builder 不会返回写入错误
	_ = WriteCSV(&sb, entries)
	return sb.String()
}

// WriteCSV 把日记写入 w，每行以换行结尾
//
// Entry 列总是加引号，内部引号加倍；缺失的指标写 0。
func WriteCSV(w io.Writer, entries []model.JournalEntry) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	var sb strings.Builder
	for i, e := range entries {
		sb.Reset()
		sb.WriteString(dateColumn(e))
		sb.WriteByte(',')
		sb.WriteString(quote(e.Text))
		for _, m := range metricColumns {
			v, _ := e.MetricValue(m)
			sb.WriteByte(',')
			sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		sb.WriteByte('\n')

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return nil
}

// dateColumn 优先输出规范日期，无法规范化时原样保留
func dateColumn(e model.JournalEntry) string {
	if k, err := e.DateKey(); err == nil {
		return k.String()
	}
	if strings.ContainsAny(e.Date, ",\"\r\n") {
		return quote(e.Date)
	}
	return e.Date
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
