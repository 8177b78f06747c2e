package planner

import "NewsClipper/internal/config"

// Task is one executable search unit derived from category configuration.
type Task struct {
	CategoryKey string
	Keywords    []string
	Quota       int
	Tag         string
}

// Tasks expands one category into its ordered task list. The umbrella task
// runs first: titles mentioning several entities land under the combined
// tag, and their URLs then block the later single-entity passes through the
// engine's seen-URL check. Remaining tasks keep their configured order.
func Tasks(cat config.CategoryConfig) []Task {
	var umbrellaLabel string
	if cat.Umbrella != nil {
		umbrellaLabel = cat.Umbrella.Label
	}

	out := make([]Task, 0, len(cat.Tasks))
	for _, t := range cat.Tasks {
		if umbrellaLabel != "" && t.Tag == umbrellaLabel {
			out = append(out, newTask(cat.Key, t))
		}
	}
	for _, t := range cat.Tasks {
		if umbrellaLabel != "" && t.Tag == umbrellaLabel {
			continue
		}
		out = append(out, newTask(cat.Key, t))
	}
	return out
}

// QuotaByTag maps each configured tag to its quota so a cross-task hit (an
// umbrella match surfacing inside an entity task) is capped by its own
// tag's budget.
func QuotaByTag(cat config.CategoryConfig) map[string]int {
	quotas := make(map[string]int, len(cat.Tasks))
	for _, t := range cat.Tasks {
		quotas[t.Tag] = t.Quota
	}
	return quotas
}

func newTask(key string, t config.TaskConfig) Task {
	return Task{
		CategoryKey: key,
		Keywords:    t.Keywords,
		Quota:       t.Quota,
		Tag:         t.Tag,
	}
}
