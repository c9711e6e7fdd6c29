package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/iWorld-y/wemind/app/analytics/pkg/engine"
	"github.com/iWorld-y/wemind/app/analytics/pkg/heatmap"
	"github.com/iWorld-y/wemind/app/analytics/pkg/trend"
)

// levelGlyphs 按活跃度等级 0..4 渲染
var levelGlyphs = [heatmap.MaxLevel + 1]string{"·", "░", "▒", "▓", "█"}

var weekdayLabels = [heatmap.DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func renderReport(w io.Writer, v *engine.View) {
	fmt.Fprintln(w, "== Summary ==")
	st := tablewriter.NewWriter(w)
	st.SetHeader([]string{"Current streak", "Longest streak", "Total entries", "Avg / week"})
	st.Append([]string{
		humanize.Comma(int64(v.Summary.CurrentStreak)),
		humanize.Comma(int64(v.Summary.LongestStreak)),
		humanize.Comma(int64(v.Summary.TotalEntries)),
		humanize.Ftoa(v.Summary.AvgPerWeek),
	})
	st.Render()

	fmt.Fprintf(w, "\n== Trends (%d-day window) ==\n", v.WindowDays)
	tt := tablewriter.NewWriter(w)
	tt.SetHeader([]string{"Metric", "Current", "Previous", "Change", "Improving"})
	for _, t := range v.Trends {
		tt.Append([]string{
			string(t.Metric),
			fmt.Sprintf("%.1f", t.CurrentAverage),
			fmt.Sprintf("%.1f", t.PreviousAverage),
			formatDelta(t),
			yesNo(t.IsImprovement),
		})
	}
	tt.Render()

	fmt.Fprintln(w, "\n== Insights ==")
	for _, in := range v.Insights {
		fmt.Fprintf(w, "%s %s\n", in.Icon, in.Text)
	}

	fmt.Fprintln(w, "\n== Milestones ==")
	mt := tablewriter.NewWriter(w)
	mt.SetHeader([]string{"", "Milestone", "Target", "Progress"})
	for _, p := range v.Milestones {
		mt.Append([]string{p.Icon, p.Label, humanize.Comma(int64(p.Target)), humanize.Ftoa(p.Percent) + "%"})
	}
	mt.Render()
	if n := v.NextMilestone; n != nil {
		fmt.Fprintf(w, "%d more day(s) to %s %s\n", n.DaysRemaining, n.Icon, n.Label)
	}
	if len(v.Summary.Achieved) > 0 {
		fmt.Fprintf(w, "Achieved: %s\n", strings.Join(v.Summary.Achieved, ", "))
	}

	for _, warn := range v.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

func renderHeatmap(w io.Writer, g *heatmap.Grid) {
	fmt.Fprintf(w, "%s .. %s  (%d active days, max %d per day)\n", g.Start, g.Reference, g.ActiveDays, g.MaxCount)
	for day := 0; day < heatmap.DaysPerWeek; day++ {
		var sb strings.Builder
		sb.WriteString(weekdayLabels[day])
		sb.WriteByte(' ')
		for _, col := range g.Columns {
			c := col[day]
			if c.Future {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(levelGlyphs[min(c.Level, heatmap.MaxLevel)])
		}
		fmt.Fprintln(w, sb.String())
	}
}

func formatDelta(t trend.MetricTrend) string {
	if t.DeltaPercent == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *t.DeltaPercent)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
