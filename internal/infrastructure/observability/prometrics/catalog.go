package prometrics

import "github.com/Zhima-Mochi/minishop-checkout/internal/observability"

// Instruments registers every metric the application reports and returns
// them keyed for telemetry.New.
func Instruments(r Registry) (map[observability.MetricKey]observability.Counter, map[observability.MetricKey]observability.Histogram) {
	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: r.Counter(string(observability.MUsecaseRequests),
			"Total number of use case invocations.", "use_case", "outcome"),
		observability.MExternalRequests: r.Counter(string(observability.MExternalRequests),
			"Total number of calls to collaborators outside the use case.", "peer", "endpoint", "outcome"),
		observability.MPayments: r.Counter(string(observability.MPayments),
			"Payment attempts by method and outcome.", "method", "outcome"),
		observability.MPaymentsRecorded: r.Counter(string(observability.MPaymentsRecorded),
			"Processing records received from payment processors.", "method"),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: r.Histogram(string(observability.MUsecaseDuration),
			"Duration of use case execution in seconds.", nil, "use_case"),
		observability.MExternalRequestDuration: r.Histogram(string(observability.MExternalRequestDuration),
			"Duration of collaborator calls in seconds.", nil, "peer", "endpoint"),
	}
	return counters, histograms
}
