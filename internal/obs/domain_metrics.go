package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartRecomputeTotal counts full cart totals recomputations by trigger.
	CartRecomputeTotal *prometheus.CounterVec
	// PromoApplyTotal counts promo code application attempts by outcome.
	PromoApplyTotal *prometheus.CounterVec
	// ShippingFallbackTotal counts selections billed as the default tier
	// because the chosen tier's minimum subtotal was not met.
	ShippingFallbackTotal prometheus.Counter
	// CheckoutTotal counts checkout payload handoffs by outcome.
	CheckoutTotal *prometheus.CounterVec
	// SnapshotTotal counts saved-cart snapshot operations.
	SnapshotTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartRecomputeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_recompute_total",
			Help:      "Count of full cart totals recomputations by trigger.",
		}, []string{"trigger"})
		PromoApplyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_apply_total",
			Help:      "Count of promo code application attempts by outcome.",
		}, []string{"result"})
		ShippingFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipping_fallback_total",
			Help:      "Count of selections billed as the default tier due to an unmet minimum.",
		})
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout payload handoffs by outcome.",
		}, []string{"result"})
		SnapshotTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saved_cart_total",
			Help:      "Count of saved-cart snapshot operations.",
		}, []string{"op"})
		reg.MustRegister(CartRecomputeTotal, PromoApplyTotal, ShippingFallbackTotal, CheckoutTotal, SnapshotTotal)
	})
}
