package campaign

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SeriesDays is the length of the daily creation series.
const SeriesDays = 30

const (
	paletteSize  = 5
	dayLayout    = "2006-01-02"
	neutralColor = "#64748b"
)

var statusColors = map[string]string{
	"completed": "#10b981",
	"failed":    "#dc2626",
	"pending":   "#f59e0b",
	"created":   "#4585f4",
}

// Slice is one bucket of a distribution chart.
type Slice struct {
	Name  string          `json:"name"`
	Count int             `json:"count"`
	Share decimal.Decimal `json:"share"`
	Fill  string          `json:"fill"`
}

// DailyCount is the number of campaigns created on a UTC date.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Analytics summarizes an owner's campaigns for the dashboard.
type Analytics struct {
	StatusDistribution []Slice      `json:"statusDistribution"`
	ListDistribution   []Slice      `json:"listDistribution"`
	ScopeDistribution  []Slice      `json:"scopeDistribution"`
	TopicDistribution  []Slice      `json:"topicDistribution"`
	TypeDistribution   []Slice      `json:"typeDistribution"`
	CampaignsOverTime  []DailyCount `json:"campaignsOverTime"`
	TotalCampaigns     int          `json:"totalCampaigns"`
}

// StatusColor returns the chart color for a campaign status.
func StatusColor(status string) string {
	if color, ok := statusColors[status]; ok {
		return color
	}
	return neutralColor
}

// PaletteColor returns the cycling chart variable for the i-th bucket.
func PaletteColor(i int) string {
	return fmt.Sprintf("var(--chart-%d)", i%paletteSize+1)
}

// BuildAnalytics aggregates rows. Buckets keep first-seen order.
func BuildAnalytics(rows []AnalyticsRow, now time.Time) Analytics {
	status := newCounter()
	lists := newCounter()
	scopes := newCounter()
	topics := newCounter()
	kinds := newCounter()

	for _, r := range rows {
		status.add(r.Status)
		lists.add(r.ListAcronym)
		scopes.add(r.Scope)
		topics.add(strings.ReplaceAll(r.Topic, "_", " "))
		kinds.add(r.CampaignType)
	}

	total := len(rows)
	return Analytics{
		StatusDistribution: status.slices(total, func(name string, _ int) string { return StatusColor(name) }),
		ListDistribution:   lists.slices(total, paletteFill),
		ScopeDistribution:  scopes.slices(total, paletteFill),
		TopicDistribution:  topics.slices(total, paletteFill),
		TypeDistribution:   kinds.slices(total, paletteFill),
		CampaignsOverTime:  dailySeries(rows, now),
		TotalCampaigns:     total,
	}
}

func paletteFill(_ string, i int) string {
	return PaletteColor(i)
}

// Share returns count as a percentage of total, rounded to two places.
func Share(count, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}

func dailySeries(rows []AnalyticsRow, now time.Time) []DailyCount {
	now = now.UTC()
	since := now.AddDate(0, 0, -SeriesDays)

	perDay := make(map[string]int)
	for _, r := range rows {
		if r.CreatedAt.Before(since) {
			continue
		}
		perDay[r.CreatedAt.UTC().Format(dayLayout)]++
	}

	series := make([]DailyCount, 0, SeriesDays)
	for i := SeriesDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dayLayout)
		series = append(series, DailyCount{Date: day, Count: perDay[day]})
	}
	return series
}

type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) slices(total int, fill func(name string, i int) string) []Slice {
	out := make([]Slice, 0, len(c.order))
	for i, name := range c.order {
		count := c.counts[name]
		out = append(out, Slice{
			Name:  name,
			Count: count,
			Share: Share(count, total),
			Fill:  fill(name, i),
		})
	}
	return out
}
