package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reportsFiled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "safespace_reports_filed_total",
	Help: "Number of reports filed, by content kind and outcome",
}, []string{"kind", "outcome"})

var contentHidden = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "safespace_content_hidden_total",
	Help: "Number of auto-hide transitions",
}, []string{"kind"})

var strikesIssued = promauto.NewCounter(prometheus.CounterOpts{
	Name: "safespace_strikes_issued_total",
	Help: "Number of strikes issued to authors",
})

var tempBansIssued = promauto.NewCounter(prometheus.CounterOpts{
	Name: "safespace_temp_bans_issued_total",
	Help: "Number of temporary bans issued by strike escalation",
})

var escalationFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "safespace_escalation_failures_total",
	Help: "Number of escalations that failed and were swallowed",
})

var reactionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "safespace_reaction_outcomes_total",
	Help: "Number of applied reactions, by outcome",
}, []string{"action"})

var guardVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "safespace_guard_verdicts_total",
	Help: "Number of content guard verdicts",
}, []string{"verdict"})
