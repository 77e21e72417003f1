package services

import (
	"context"

	"verdantshop/internal/domain"
	applog "verdantshop/internal/log"
	"verdantshop/internal/repos"
)

// StockMonitor reconciles product availability with stock levels and turns
// fulfilled-able stock alerts into notifications. It is safe to run from
// several processes at once: each alert is claimed with a conditional update
// before its notification is written, so concurrent runs cannot double-send.
type StockMonitor struct {
	Products *repos.ProductRepo
	Alerts   *repos.StockAlertRepo
	Notify   *NotificationService
	DryRun   bool
}

func NewStockMonitor(products *repos.ProductRepo, alerts *repos.StockAlertRepo, notify *NotificationService) *StockMonitor {
	return &StockMonitor{Products: products, Alerts: alerts, Notify: notify}
}

type MonitorReport struct {
	AlertsEligible    int      `json:"alerts_eligible"`
	NotificationsSent int      `json:"notifications_sent"`
	MarkedUnavailable int      `json:"marked_unavailable"`
	MarkedAvailable   int      `json:"marked_available"`
	WishlistNotified  int      `json:"wishlist_notified"`
	Errors            []string `json:"errors,omitempty"`
}

// Run performs one monitor pass. A failure on one alert or product is
// recorded and the pass moves on; only query errors abort the run.
func (m *StockMonitor) Run(ctx context.Context) (MonitorReport, error) {
	var rep MonitorReport

	eligible, err := m.Alerts.Eligible()
	if err != nil {
		return rep, err
	}
	rep.AlertsEligible = len(eligible)
	for _, a := range eligible {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if m.DryRun {
			applog.Job("monitor.alert.dryrun", map[string]any{"alert": a.AlertID, "product": a.ProductID})
			continue
		}
		claimed, err := m.Alerts.Claim(a.AlertID)
		if err != nil {
			rep.Errors = append(rep.Errors, "alert "+a.AlertID+": "+err.Error())
			continue
		}
		if !claimed {
			continue
		}
		if _, err := m.Notify.StockAlert(a.UserID, a.ProductID, a.ProductName, a.StockQty); err != nil {
			// Give the alert back so a later pass retries it.
			if rerr := m.Alerts.Release(a.AlertID); rerr != nil {
				applog.JobError("monitor.alert.release.fail", rerr, map[string]any{"alert": a.AlertID})
			}
			rep.Errors = append(rep.Errors, "alert "+a.AlertID+": "+err.Error())
			continue
		}
		rep.NotificationsSent++
	}

	if err := m.reconcileAvailability(ctx, &rep); err != nil {
		return rep, err
	}
	applog.Job("monitor.run", map[string]any{
		"eligible": rep.AlertsEligible, "sent": rep.NotificationsSent,
		"off": rep.MarkedUnavailable, "on": rep.MarkedAvailable, "errors": len(rep.Errors),
	})
	return rep, nil
}

// reconcileAvailability enforces the invariant stock 0 <=> unavailable.
func (m *StockMonitor) reconcileAvailability(ctx context.Context, rep *MonitorReport) error {
	depleted, err := m.Products.OutOfStockAvailable()
	if err != nil {
		return err
	}
	for _, id := range depleted {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.DryRun {
			continue
		}
		if err := m.Products.SetAvailable(id, false); err != nil {
			rep.Errors = append(rep.Errors, "product "+id+": "+err.Error())
			continue
		}
		rep.MarkedUnavailable++
	}

	restocked, err := m.Products.RestockedUnavailable()
	if err != nil {
		return err
	}
	for _, id := range restocked {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.DryRun {
			continue
		}
		if err := m.Products.SetAvailable(id, true); err != nil {
			rep.Errors = append(rep.Errors, "product "+id+": "+err.Error())
			continue
		}
		rep.MarkedAvailable++

		// Becoming available again is the moment wishlist owners hear
		// about it; the flip happens once per restock.
		p, err := m.Products.Get(id)
		if err != nil {
			rep.Errors = append(rep.Errors, "product "+id+": "+err.Error())
			continue
		}
		n, err := m.Notify.BackInStock(p)
		if err != nil {
			rep.Errors = append(rep.Errors, "product "+id+": "+err.Error())
			continue
		}
		rep.WishlistNotified += n
	}
	return nil
}

func (m *StockMonitor) LowStock(threshold int) ([]domain.Product, error) {
	if threshold <= 0 {
		threshold = 5
	}
	return m.Products.ListLowStock(threshold)
}

func (m *StockMonitor) Report() (repos.StockReport, error) {
	return m.Products.StockReport()
}
