package metrics

var (
	Program = NopProgramMetrics()
	Points  = NopPointsMetrics()
	API     = NopAPIMetrics()
)
