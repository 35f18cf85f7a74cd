package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records cart, checkout and consent activity.
type Storefront struct {
	cartMutations      *prometheus.CounterVec
	checkoutTransition *prometheus.CounterVec
	consentDecisions   *prometheus.CounterVec
	storageFailures    *prometheus.CounterVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	checkoutTransition := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_transitions_total",
		Help: "Checkout step submissions, by transition and outcome.",
	}, []string{"transition", "outcome"})
	consentDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_consent_decisions_total",
		Help: "Cookie consent decisions recorded.",
	}, []string{"decision"})
	storageFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_storage_failures_total",
		Help: "Failed reads or writes against session storage.",
	}, []string{"op"})
	reg.MustRegister(cartMutations, checkoutTransition, consentDecisions, storageFailures)
	return &Storefront{
		cartMutations:      cartMutations,
		checkoutTransition: checkoutTransition,
		consentDecisions:   consentDecisions,
		storageFailures:    storageFailures,
	}
}

// IncCartMutation counts one applied cart operation.
func (s *Storefront) IncCartMutation(op string) {
	if s == nil || s.cartMutations == nil {
		return
	}
	s.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCheckoutTransition counts a checkout submission and how it ended.
func (s *Storefront) IncCheckoutTransition(transition, outcome string) {
	if s == nil || s.checkoutTransition == nil {
		return
	}
	s.checkoutTransition.WithLabelValues(normalizeLabel(transition), normalizeLabel(outcome)).Inc()
}

// IncConsentDecision counts a recorded consent choice.
func (s *Storefront) IncConsentDecision(decision string) {
	if s == nil || s.consentDecisions == nil {
		return
	}
	s.consentDecisions.WithLabelValues(normalizeLabel(decision)).Inc()
}

// IncStorageFailure counts a failed storage operation.
func (s *Storefront) IncStorageFailure(op string) {
	if s == nil || s.storageFailures == nil {
		return
	}
	s.storageFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
