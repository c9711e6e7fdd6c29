// Package heatmap 构建按周排列的一年写作热力图。
package heatmap

import (
	"time"

	"github.com/iWorld-y/wemind/app/analytics/pkg/datekey"
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
)

const (
	// Weeks 固定列数，与回看天数无关
	Weeks = 53
	// DaysPerWeek 每列行数，第 0 行是周日
	DaysPerWeek = 7
	// MaxLevel 最高强度等级
	MaxLevel = 4
	// DefaultLookbackDays 默认回看天数
	DefaultLookbackDays = 365
)

// Cell 热力图中的一天
type Cell struct {
	Date  datekey.Key `json:"date"`
	Count int         `json:"count"`
	Level int         `json:"level"`
	// Future 晚于参考日期的占位格，不可交互
	Future bool `json:"future,omitempty"`
}

type position struct{ week, day int }

// Grid 53 列 × 7 行的热力图
type Grid struct {
	Columns    [][]Cell    `json:"columns"`
	Start      datekey.Key `json:"start"`
	Reference  datekey.Key `json:"reference"`
	ActiveDays int         `json:"active_days"`
	MaxCount   int         `json:"max_count"`

	index map[datekey.Key]position
}

// Build 以 reference 为终点构建热力图
//
// 起点为 reference 往前 lookbackDays 天，再回退到之前最近的周日。
// 日期无法规范化的日记会被跳过。
func Build(entries []model.JournalEntry, lookbackDays int, reference time.Time) *Grid {
	if lookbackDays < 0 {
		lookbackDays = 0
	}
	ref := datekey.FromTime(reference)
	start := ref.AddDays(-lookbackDays)
	start = start.AddDays(-int(start.Weekday()))

	counts := make(map[datekey.Key]int, len(entries))
	for _, e := range entries {
		k, err := e.DateKey()
		if err != nil {
			continue
		}
		counts[k]++
	}

	g := &Grid{
		Columns:   make([][]Cell, Weeks),
		Start:     start,
		Reference: ref,
		index:     make(map[datekey.Key]position, Weeks*DaysPerWeek),
	}

	day := start
	for w := 0; w < Weeks; w++ {
		col := make([]Cell, DaysPerWeek)
		for d := 0; d < DaysPerWeek; d++ {
			cell := Cell{Date: day}
			if datekey.Compare(day, ref) > 0 {
				cell.Future = true
			} else {
				cell.Count = counts[day]
				cell.Level = min(cell.Count, MaxLevel)
			}
			if cell.Count > 0 {
				g.ActiveDays++
			}
			g.MaxCount = max(g.MaxCount, cell.Count)

			col[d] = cell
			g.index[day] = position{week: w, day: d}
			day = day.AddDays(1)
		}
		g.Columns[w] = col
	}
	return g
}

// Lookup 按日期查找单元格
func (g *Grid) Lookup(k datekey.Key) (Cell, bool) {
	if g == nil {
		return Cell{}, false
	}
	if g.index == nil {
		g.reindex()
	}
	p, ok := g.index[k]
	if !ok {
		return Cell{}, false
	}
	return g.Columns[p.week][p.day], true
}

// Cells 按时间顺序返回所有单元格
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, Weeks*DaysPerWeek)
	for _, col := range g.Columns {
		out = append(out, col...)
	}
	return out
}

// reindex 用于反序列化得到的 Grid
func (g *Grid) reindex() {
	g.index = make(map[datekey.Key]position, Weeks*DaysPerWeek)
	for w, col := range g.Columns {
		for d, c := range col {
			g.index[c.Date] = position{week: w, day: d}
		}
	}
}
