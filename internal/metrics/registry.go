package metrics

// Func computes one metric group. A nil result means there is not enough data.
type Func func(in *Input, p Params) (any, error)

// Entry binds a group name to its computation.
type Entry struct {
	Name string
	Fn   Func
}

// Registry is the ordered list of metric groups. Reports keep this order.
type Registry []Entry

// Group names.
const (
	GroupSessions     = "sessions"
	GroupExercises    = "exercises"
	GroupSets         = "sets"
	GroupFrequency    = "frequency"
	GroupFatigue      = "fatigue"
	GroupProgress     = "progress"
	GroupBody         = "body"
	GroupCorrelations = "correlations"
)

// DefaultRegistry returns the eight dashboard metric groups.
func DefaultRegistry() Registry {
	return Registry{
		{GroupSessions, ComputeSessions},
		{GroupExercises, ComputeExercises},
		{GroupSets, ComputeSets},
		{GroupFrequency, ComputeFrequency},
		{GroupFatigue, ComputeFatigue},
		{GroupProgress, ComputeProgress},
		{GroupBody, ComputeBody},
		{GroupCorrelations, ComputeCorrelations},
	}
}

// Names returns the group names in order.
func (r Registry) Names() []string {
	out := make([]string, len(r))
	for i, e := range r {
		out[i] = e.Name
	}
	return out
}

// Lookup finds a group by name.
func (r Registry) Lookup(name string) (Entry, bool) {
	for _, e := range r {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
