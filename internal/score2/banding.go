package score2

// Band maps a rounded risk percentage to the model's risk group.
func Band(m Model, age, pct float64) RiskGroup {
	switch m {
	case SCORE2:
		if age < 50 {
			return threeTier(pct, 2.5, 7.5)
		}
		return threeTier(pct, 5, 10)
	case SCORE2OP:
		return threeTier(pct, 7.5, 15)
	case SCORE2Asian, SCORE2Diabetes:
		switch {
		case pct >= 20:
			return VeryHigh
		case pct >= 10:
			return High
		case pct >= 5:
			return Moderate
		default:
			return Low
		}
	}
	return ""
}

func threeTier(pct, moderate, high float64) RiskGroup {
	switch {
	case pct >= high:
		return High
	case pct >= moderate:
		return Moderate
	default:
		return Low
	}
}
