package domain

// Category identifies one of the fixed template groupings.
type Category string

const (
	CategoryHooks        Category = "hooks"
	CategoryBuildUps     Category = "buildUps"
	CategoryStories      Category = "stories"
	CategoryPsychologies Category = "psychologies"
	CategoryExtraHooks   Category = "extraHooks"
)

// categoryOrder is the enumeration order used for deterministic output.
var categoryOrder = [...]Category{
	CategoryHooks,
	CategoryBuildUps,
	CategoryStories,
	CategoryPsychologies,
	CategoryExtraHooks,
}

// CategoryInfo carries presentation metadata for a category.
// It plays no part in storage or validation.
type CategoryInfo struct {
	Key         Category `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	// Parent is set when the editor nests this category under another one.
	Parent Category `json:"parent,omitempty"`
}

var categoryInfo = map[Category]CategoryInfo{
	CategoryHooks: {
		Key:         CategoryHooks,
		Title:       "Hooks",
		Description: "Opening lines that stop the scroll in the first seconds of the video.",
	},
	CategoryBuildUps: {
		Key:         CategoryBuildUps,
		Title:       "Build-Ups",
		Description: "Transitions that raise the stakes between the hook and the story.",
	},
	CategoryStories: {
		Key:         CategoryStories,
		Title:       "Stories",
		Description: "Narratives describing what the company did and how it played out.",
	},
	CategoryPsychologies: {
		Key:         CategoryPsychologies,
		Title:       "Psychology Conclusions",
		Description: "Closing lines naming the psychological principle behind the tactic.",
	},
	CategoryExtraHooks: {
		Key:         CategoryExtraHooks,
		Title:       "Extra Hooks",
		Description: "Secondary hook pool that can be mixed into hook selection.",
		Parent:      CategoryHooks,
	},
}

// IsValidCategory reports whether key names one of the known categories.
func IsValidCategory(key string) bool {
	_, ok := categoryInfo[Category(key)]
	return ok
}

// AllCategories returns the categories in their fixed enumeration order.
// The returned slice is a fresh copy.
func AllCategories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder[:])
	return out
}

// Info returns the presentation metadata for c.
// Unknown categories yield a zero CategoryInfo and false.
func Info(c Category) (CategoryInfo, bool) {
	info, ok := categoryInfo[c]
	return info, ok
}

// AllInfo returns the metadata of every category in enumeration order.
func AllInfo() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		out = append(out, categoryInfo[c])
	}
	return out
}
