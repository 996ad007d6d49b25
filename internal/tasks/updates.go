package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveChampions Phase = iota
	ResolvePackage
	ApplyItemSets
	Summary
)

func (p Phase) String() string {
	switch p {
	case ResolveChampions:
		return "resolve_champions"
	case ResolvePackage:
		return "resolve_package"
	case ApplyItemSets:
		return "apply_item_sets"
	case Summary:
		return "summary"
	default:
		return ""
	}
}

func resolveChampionsUpdate(version string, count int) ProgressUpdate {
	if version == "" {
		return ProgressUpdate{Phase: ResolveChampions, Step: 1, Total: 1, Message: fmt.Sprintf("Applying %d champions", count)}
	}
	return ProgressUpdate{
		Phase:   ResolveChampions,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d champions in game version %s", count, version),
	}
}

func resolvePackageUpdate(step, total int, source, version string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvePackage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s@%s", step, total, source, version),
	}
}

func resolvePackageFailedUpdate(step, total int, source string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvePackage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, source, err),
	}
}

func championAppliedUpdate(step, total int, res ChampionApplyResult) ProgressUpdate {
	var msg string
	switch {
	case res.Error != nil:
		msg = fmt.Sprintf("[%d/%d] ✗ %s %s: %v", step, total, res.Source, res.Alias, res.Error)
	case res.Skipped:
		msg = fmt.Sprintf("[%d/%d] - %s %s: not provided", step, total, res.Source, res.Alias)
	default:
		msg = fmt.Sprintf("[%d/%d] ✓ %s %s (%d files)", step, total, res.Source, res.Alias, len(res.Files))
	}
	return ProgressUpdate{Phase: ApplyItemSets, Step: step, Total: total, Message: msg, Data: res}
}

func summaryUpdate(result *BulkApplyResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d applied, %d skipped, %d failed, %d files written", result.Succeeded, result.Skipped, result.Failed, result.FilesWritten),
		Data:    result,
	}
}
