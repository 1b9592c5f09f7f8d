package api

import (
	"net/http"
	"time"

	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/db/repositories"
)

type syncAirportsRequest struct {
	URL string `json:"url,omitempty"`
}

// SyncAirportsHandler handles POST /api/v1/admin/data/sync-airports. It
// replaces the airports table from the given URL or the public dataset.
func SyncAirportsHandler(airportLoader *common.AirportLoaderService, airports *repositories.AirportRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req syncAirportsRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}
		if req.URL == "" {
			req.URL = common.DefaultAirportsURL
		}

		count, err := airportLoader.LoadFromURL(r.Context(), req.URL)
		if err != nil {
			common.RespondError(w, initTime, nil, "Failed to sync airports: "+err.Error(), http.StatusBadGateway)
			return
		}

		total, err := airports.Count(r.Context())
		if err != nil {
			common.RespondError(w, initTime, nil, "Failed to get stats: "+err.Error(), http.StatusInternalServerError)
			return
		}

		response := map[string]interface{}{
			"imported": count,
			"total":    total,
		}

		common.RespondSuccess(w, initTime, "Airports synced successfully", response)
	}
}
