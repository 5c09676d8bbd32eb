package observability

// Metric keys shared by the registry and the components that emit them.
// Label sets are fixed at registration time.
const (
	// {use_case, outcome}; outcome is success, declined, invalid or error.
	MUsecaseRequests MetricKey = "usecase_requests_total"
	// {use_case}
	MUsecaseDuration MetricKey = "usecase_duration_seconds"
	// {method, route, status}
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"
	// {peer, endpoint, outcome}; peer is the circuit variant.
	MExternalRequests MetricKey = "external_requests_total"
	// {peer, endpoint}
	MExternalRequestDuration MetricKey = "external_request_duration_seconds"
	// {event, circuit}
	MPaymentEvents MetricKey = "payment_events_total"
)
