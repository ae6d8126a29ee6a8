package constants

import "strings"

// ProcessCategory is one of the four production stages. The category decides
// which form template is active for a work log.
type ProcessCategory string

const (
	ProcessMaterial   ProcessCategory = "material"
	ProcessPress      ProcessCategory = "press"
	ProcessPost       ProcessCategory = "post"
	ProcessInspection ProcessCategory = "inspection"
)

// Display names of the processes as they are stored on records.
const (
	ProcessNameMaterial   = "소재준비"
	ProcessNamePress      = "프레스"
	ProcessNamePost       = "후가공"
	ProcessNameInspection = "검사"
)

var VehicleModels = []string{"DN8", "LF", "DE", "J100", "J120", "O100", "GN7"}

var ProcessTypes = []string{ProcessNameMaterial, ProcessNamePress, ProcessNamePost, ProcessNameInspection}

// ModelGroup is the manufacturer group of a vehicle model. Row sets and log
// titles depend on the group, never on ad hoc model checks.
type ModelGroup string

const (
	GroupHKMC ModelGroup = "HKMC"
	GroupKGM  ModelGroup = "KGM"
)

var modelGroups = map[string]ModelGroup{
	"DN8":  GroupHKMC,
	"LF":   GroupHKMC,
	"DE":   GroupHKMC,
	"GN7":  GroupHKMC,
	"J100": GroupKGM,
	"J120": GroupKGM,
	"O100": GroupKGM,
}

// GroupOf returns the manufacturer group of a model. Unknown models fall into
// the HKMC group so they get the default row sets.
func GroupOf(model string) ModelGroup {
	if g, ok := modelGroups[model]; ok {
		return g
	}
	return GroupHKMC
}

func IsKnownModel(model string) bool {
	_, ok := modelGroups[model]
	return ok
}

// ParseProcess maps a stored process name onto its category. Matching is by
// substring so both "소재준비" and legacy "소재 준비" resolve the same way.
func ParseProcess(process string) ProcessCategory {
	switch {
	case strings.Contains(process, "소재"):
		return ProcessMaterial
	case strings.Contains(process, "프레스"):
		return ProcessPress
	case strings.Contains(process, "후가공"):
		return ProcessPost
	case strings.Contains(process, "검사"):
		return ProcessInspection
	}
	return ProcessMaterial
}

// LogTitle builds the display name of a work log from model and process.
// KGM models share one title per process; a missing model or process yields
// an empty title.
func LogTitle(model, process string) string {
	if model == "" || process == "" {
		return ""
	}

	switch ParseProcess(process) {
	case ProcessMaterial:
		if model == "J100" || model == "GN7" {
			return model + " 소재준비"
		}
		return "소재준비 " + model
	case ProcessPress:
		if GroupOf(model) == GroupKGM {
			return "KGM 프레스"
		}
		return model + " 프레스"
	case ProcessPost:
		return "후가공일보"
	case ProcessInspection:
		if GroupOf(model) == GroupKGM {
			return "KGM 검사일보"
		}
		return "검사일보 " + model
	}

	return model + " " + process + " 일보"
}
