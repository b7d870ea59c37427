package metrics

func InitPrometheusMetrics() {
	Version = PromVersion()
	Program = PromProgramMetrics()
	Points = PromPointsMetrics()
	API = PromAPIMetrics()
}
