package api

import (
	"net/http"
	"time"

	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/models/dtos"
	"planes-utils/flightnoise/internal/providers"
)

// UsageHandler handles GET /api/v1/admin/usage?period=
func (h *Handlers) UsageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		periodParam := r.URL.Query().Get("period")
		if periodParam == "" {
			periodParam = string(constants.UsagePeriod24h)
		}
		period, ok := constants.ParseUsagePeriod(periodParam)
		if !ok {
			common.RespondError(w, initTime, nil, constants.MsgInvalidPeriod, http.StatusBadRequest)
			return
		}

		usage, status, err := h.deps.Services.FR24.GetUsage(r.Context(), period)
		if err != nil {
			code := providers.ErrorCode(err)
			logging.Warn("FR24 usage request failed", "period", string(period), "status", status, "code", code, "error", err)
			common.RespondError(w, initTime, nil, constants.GetErrorMessage(code), http.StatusBadGateway)
			return
		}

		endpoints := usage.Data
		if endpoints == nil {
			endpoints = []dtos.UsageEntry{}
		}

		common.RespondSuccess(w, initTime, constants.MsgUsageRetrieved, dtos.UsageSummaryResponse{
			Period:       string(period),
			TotalCredits: usage.TotalCredits(),
			Endpoints:    endpoints,
		})
	}
}
