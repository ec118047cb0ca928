package domain

import "time"

// InsightTag classifies a coaching insight. Fixed closed set.
type InsightTag string

const (
	TagRisk       InsightTag = "RISK"
	TagAlpha      InsightTag = "ALPHA"
	TagDiscipline InsightTag = "DISCIPLINE"
	TagRecovery   InsightTag = "RECOVERY"
)

// Insight is a generated coaching message. Insights are ephemeral: a
// full batch is regenerated on every input change and never persisted.
// ID is a sequence number unique within one generation run only.
type Insight struct {
	ID          int        `json:"id"`
	Tag         InsightTag `json:"tag"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Priority    int        `json:"priority"` // 1..5, 5 most urgent
	HabitID     string     `json:"habit_id,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}
