package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/models/dtos"
	"planes-utils/flightnoise/internal/noise"
)

// AircraftTypeHandler handles GET /api/v1/aircraft/{tdesig}
func (h *Handlers) AircraftTypeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		tdesig := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "tdesig")))

		rec, err := h.deps.Repo.AircraftTypes.GetRecord(r.Context(), tdesig)
		if err != nil {
			logging.Error("Aircraft type lookup failed", "tdesig", tdesig, "error", err)
			common.RespondError(w, initTime, nil, "Failed to look up aircraft type", http.StatusInternalServerError)
			return
		}
		if rec == nil {
			common.RespondError(w, initTime, nil, constants.MsgAircraftNotFound, http.StatusNotFound)
			return
		}

		category := repositories.CategoryFromRecord(rec)
		common.RespondSuccess(w, initTime, constants.MsgAircraftFound, dtos.AircraftTypeResponse{
			Record:        rec,
			Category:      category,
			BaselineNoise: noise.BaselineNoise(category.WakeCategory, category.EngineType),
		})
	}
}
