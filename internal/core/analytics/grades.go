package analytics

// Two letter-grade scales co-exist on purpose: the dashboard shows a
// finer-grained scale, exports use the coarser one shared with external
// tools. They must not be unified; doing so changes user-visible output.

// DashboardGrade maps a completion percent to the dashboard letter scale.
func DashboardGrade(pct int) string {
	switch {
	case pct >= 95:
		return "A+"
	case pct >= 90:
		return "A"
	case pct >= 85:
		return "A-"
	case pct >= 80:
		return "B+"
	case pct >= 75:
		return "B"
	case pct >= 70:
		return "B-"
	case pct >= 65:
		return "C+"
	case pct >= 60:
		return "C"
	case pct >= 50:
		return "D"
	default:
		return "F"
	}
}

// ExportGrade maps a completion percent to the coarser export scale.
func ExportGrade(pct int) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}
