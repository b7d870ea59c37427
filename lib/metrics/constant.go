package metrics

const (
	Namespace        = "tokenpoll"
	ProgramSubsystem = "program"
	PointsSubsystem  = "points"
	APISubsystem     = "api"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)
