package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for registry operations. A nil
// *Metrics is valid and records nothing, so tests don't fight the default
// registerer.
type Metrics struct {
	IdentitiesCreated prometheus.Counter
	DIDUpdates        prometheus.Counter
	ClaimsAppended    prometheus.Counter
	ClaimsCapped      prometheus.Counter
	ClaimsVerified    prometheus.Counter
	StatusWrites      prometheus.Counter
}

// New creates and registers all registry metrics.
func New() *Metrics {
	return &Metrics{
		IdentitiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "did_registry_identities_created_total",
			Help: "Total number of identities ever created",
		}),
		DIDUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "did_registry_did_updates_total",
			Help: "Total number of DID replacements",
		}),
		ClaimsAppended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "did_registry_claims_appended_total",
			Help: "Total number of claims appended to identity records",
		}),
		ClaimsCapped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "did_registry_claims_capped_total",
			Help: "Total number of claim appends dropped at the capacity limit",
		}),
		ClaimsVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "did_registry_claims_verified_total",
			Help: "Total number of claim verification writes",
		}),
		StatusWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "did_registry_status_writes_total",
			Help: "Total number of identity verification status writes",
		}),
	}
}

func (m *Metrics) IncIdentitiesCreated() { m.inc(func() { m.IdentitiesCreated.Inc() }) }
func (m *Metrics) IncDIDUpdates()        { m.inc(func() { m.DIDUpdates.Inc() }) }
func (m *Metrics) IncClaimsAppended()    { m.inc(func() { m.ClaimsAppended.Inc() }) }
func (m *Metrics) IncClaimsCapped()      { m.inc(func() { m.ClaimsCapped.Inc() }) }
func (m *Metrics) IncClaimsVerified()    { m.inc(func() { m.ClaimsVerified.Inc() }) }
func (m *Metrics) IncStatusWrites()      { m.inc(func() { m.StatusWrites.Inc() }) }

func (m *Metrics) inc(fn func()) {
	if m == nil {
		return
	}
	fn()
}
