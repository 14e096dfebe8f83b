package score

// DefaultPopularity returns the built-in application popularity table.
// Values are on a 0-100 scale; sources are lower case.
func DefaultPopularity() map[string]float64 {
	return map[string]float64{
		"windows":    100,
		"chrome":     95,
		"vscode":     90,
		"excel":      85,
		"word":       85,
		"firefox":    80,
		"photoshop":  75,
		"slack":      70,
		"terminal":   65,
		"intellij":   60,
		"figma":      55,
		"powerpoint": 50,
	}
}
