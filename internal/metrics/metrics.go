// Package metrics holds the prometheus collectors for workflow activity.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LeaveActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_leave_actions_total",
		Help: "Leave request actions that completed, by action.",
	}, []string{"action"})

	HelpDeskTickets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_helpdesk_tickets_total",
		Help: "Help-desk tickets created, by request type.",
	}, []string{"request_type"})

	CorrespondenceDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_correspondence_decisions_total",
		Help: "Correspondence approval decisions, by decision.",
	}, []string{"decision"})

	OutboxDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_outbox_deliveries_total",
		Help: "Outbox delivery attempts, by message kind and result.",
	}, []string{"kind", "result"})
)

// Handler exposes the default registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
