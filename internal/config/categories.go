package config

// Categories maps a command category (the folder a definition lives in) to
// its display title. Unknown categories are shown under their folder name.
var Categories = map[string]string{
	"":            "📦 General",
	"utility":     "📢 Utilities",
	"development": "🛠️ Development",
}

// CategoryWeights orders categories in listings; lower comes first.
var CategoryWeights = map[string]int{
	"utility":     10,
	"":            50,
	"development": 60,
}

// CategoryTitle returns the display title for a category.
func CategoryTitle(category string) string {
	if title, ok := Categories[category]; ok {
		return title
	}
	return category
}

// CategoryWeight returns the sort weight for a category.
func CategoryWeight(category string) int {
	if w, ok := CategoryWeights[category]; ok {
		return w
	}
	return 100
}
