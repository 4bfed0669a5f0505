package build

// Stage is a step of one build invocation. Stages only move forward:
// Idle → ResolvingDependencies → Configuring → Naming → Compiling →
// Succeeded or Failed. There is no retry transition.
type Stage int

const (
	StageIdle Stage = iota
	StageResolvingDependencies
	StageConfiguring
	StageNaming
	StageCompiling
	StageSucceeded
	StageFailed
)

var stageNames = [...]string{
	StageIdle:                  "idle",
	StageResolvingDependencies: "resolving-dependencies",
	StageConfiguring:           "configuring",
	StageNaming:                "naming",
	StageCompiling:             "compiling",
	StageSucceeded:             "succeeded",
	StageFailed:                "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool {
	return s == StageSucceeded || s == StageFailed
}
