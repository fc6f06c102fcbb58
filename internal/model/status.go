package model

// Status is the shared lifecycle status of a Charge or Plant. The empty
// string means the status has not been set yet.
type Status string

const (
	StatusUnset       Status = ""
	StatusSeeds       Status = "seeds"
	StatusGermination Status = "germination"
	StatusCutting     Status = "cutting"
	StatusVegetative  Status = "vegetative"
	StatusFlowering   Status = "flowering"
	StatusHarvest     Status = "harvest"
	StatusQuarantine  Status = "quarantine"
	StatusDestroyed   Status = "destroyed"
)

// Statuses lists every settable lifecycle status in domain order.
var Statuses = []Status{
	StatusSeeds,
	StatusGermination,
	StatusCutting,
	StatusVegetative,
	StatusFlowering,
	StatusHarvest,
	StatusQuarantine,
	StatusDestroyed,
}

// Valid reports whether s is a known lifecycle status. The unset value is
// valid as a stored state but not as a transition target.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// HarvestStatus is the post-finalization processing status of a Harvest
type HarvestStatus string

const (
	HarvestStatusDrying         HarvestStatus = "drying"
	HarvestStatusCuring         HarvestStatus = "curing"
	HarvestStatusTestInProgress HarvestStatus = "test_in_progress"
	HarvestStatusReadyForIssue  HarvestStatus = "ready_for_issue"
	HarvestStatusDestroyed      HarvestStatus = "destroyed"
)

// HarvestStatuses lists every settable harvest status in processing order.
var HarvestStatuses = []HarvestStatus{
	HarvestStatusDrying,
	HarvestStatusCuring,
	HarvestStatusTestInProgress,
	HarvestStatusReadyForIssue,
	HarvestStatusDestroyed,
}

// Valid reports whether s is a known harvest status
func (s HarvestStatus) Valid() bool {
	for _, known := range HarvestStatuses {
		if s == known {
			return true
		}
	}
	return false
}
