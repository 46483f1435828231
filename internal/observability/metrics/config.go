package metrics

// Config carries the const labels stamped onto every metric.
type Config struct {
	ServiceName string
	Environment string
}
