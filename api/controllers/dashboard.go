package controllers

import (
	"net/http"

	"github.com/velomart/velomart-backend/api/responses"
	"github.com/velomart/velomart-backend/internal/dashboard"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
)

// DashboardSummary returns the admin totals across users, stores, orders and riders.
func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
