// Package milestone 计算连续写作天数相对目标阶梯的完成进度。
package milestone

// Milestone 连续写作目标
type Milestone struct {
	Target int    `json:"target"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
}

// Progress 单个目标的完成进度
type Progress struct {
	Milestone
	Percent   float64 `json:"percent"`
	Completed bool    `json:"completed"`
}

// DefaultLadder 固定的目标阶梯
var DefaultLadder = []Milestone{
	{Target: 3, Label: "Commitment", Icon: "🔥"},
	{Target: 7, Label: "First Week", Icon: "⭐"},
	{Target: 30, Label: "Month of Mindfulness", Icon: "🏆"},
	{Target: 100, Label: "Wellness Master", Icon: "👑"},
}

// Compute 计算 currentStreak 在每个目标上的进度，百分比不超过 100
func Compute(currentStreak int, ladder []Milestone) []Progress {
	streak := max(currentStreak, 0)
	out := make([]Progress, 0, len(ladder))
	for _, m := range ladder {
		p := Progress{Milestone: m}
		if m.Target > 0 {
			p.Percent = min(100, float64(streak)*100/float64(m.Target))
			p.Completed = streak >= m.Target
		}
		out = append(out, p)
	}
	return out
}

// Next 返回第一个未完成的目标以及还差的天数
func Next(progress []Progress, currentStreak int) (Progress, int, bool) {
	for _, p := range progress {
		if !p.Completed {
			return p, p.Target - max(currentStreak, 0), true
		}
	}
	return Progress{}, 0, false
}
