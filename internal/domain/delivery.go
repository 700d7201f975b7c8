package domain

// DeliveryOutcome records one channel attempt for one subscription.
// Ephemeral: it lives only inside the aggregated dispatch report.
type DeliveryOutcome struct {
	SubscriptionID string  `json:"subscription_id"`
	Channel        Channel `json:"channel"`
	Success        bool    `json:"success"`
	ErrorDetail    string  `json:"error_detail,omitempty"`
}

// DispatchReport aggregates every channel attempt of one dispatch.
// Delivered and Failed count channel attempts, not subscriptions: a
// subscription with one success and one failure contributes to both.
type DispatchReport struct {
	Matched   int               `json:"matched"`
	Delivered int               `json:"delivered"`
	Failed    int               `json:"failed"`
	Outcomes  []DeliveryOutcome `json:"outcomes"`
}
