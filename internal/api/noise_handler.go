package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/geometry"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/models/dtos"
)

// maxBatchFlights bounds one batch request.
const maxBatchFlights = 500

// poiFromRequest falls back to the configured default POI for an empty body.
func (h *Handlers) poiFromRequest(r *http.Request) (geometry.POI, bool) {
	var req dtos.POIRequest
	if err := decodeBody(r, &req); err != nil {
		return geometry.POI{}, false
	}
	if req.Latitude == nil && req.Longitude == nil {
		d := h.deps.Config.Noise.DefaultPOI
		return geometry.POI{Latitude: d.Latitude, Longitude: d.Longitude, Altitude: d.Altitude}, true
	}
	return req.ToPOI()
}

// FlightNoiseHandler handles POST /api/v1/noise/flight/{fr24_id}
func (h *Handlers) FlightNoiseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		flightID := strings.TrimSpace(chi.URLParam(r, "fr24_id"))

		poi, ok := h.poiFromRequest(r)
		if !ok {
			common.RespondError(w, initTime, nil, constants.MsgInvalidPOI, http.StatusBadRequest)
			return
		}

		result, err := h.deps.Services.Noise.FlightNoise(r.Context(), flightID, poi)
		if err != nil {
			logging.Error("Noise calculation failed", "fr24_id", flightID, "error", err)
			common.RespondError(w, initTime, nil, "Failed to calculate noise", http.StatusInternalServerError)
			return
		}
		if result == nil {
			common.RespondError(w, initTime, nil, constants.MsgNoResult, http.StatusNotFound)
			return
		}

		common.RespondSuccess(w, initTime, constants.MsgNoiseCalculated, dtos.FlightNoiseResponse{
			FlightID: flightID,
			Result:   *result,
		})
	}
}

// BatchNoiseHandler handles POST /api/v1/noise/batch
func (h *Handlers) BatchNoiseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.BatchNoiseRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}
		if len(req.FlightIDs) == 0 {
			common.RespondError(w, initTime, nil, constants.MsgEmptyFlightIDs, http.StatusBadRequest)
			return
		}
		if len(req.FlightIDs) > maxBatchFlights {
			common.RespondError(w, initTime, nil, "Too many flight_ids in one batch", http.StatusBadRequest)
			return
		}

		var poi geometry.POI
		if req.POI == nil {
			d := h.deps.Config.Noise.DefaultPOI
			poi = geometry.POI{Latitude: d.Latitude, Longitude: d.Longitude, Altitude: d.Altitude}
		} else {
			var ok bool
			if poi, ok = req.POI.ToPOI(); !ok {
				common.RespondError(w, initTime, nil, constants.MsgInvalidPOI, http.StatusBadRequest)
				return
			}
		}

		results, skipped, err := h.deps.Services.Noise.BatchNoise(r.Context(), req.FlightIDs, poi, req.Parallel)
		if err != nil {
			logging.Error("Batch noise calculation failed", "flights", len(req.FlightIDs), "error", err)
			common.RespondError(w, initTime, nil, "Failed to calculate noise", http.StatusInternalServerError)
			return
		}
		if skipped == nil {
			skipped = []string{}
		}

		common.RespondSuccess(w, initTime, constants.MsgBatchCalculated, dtos.BatchNoiseResponse{
			Results: results,
			Skipped: skipped,
		})
	}
}

// FlightDistanceHandler handles POST /api/v1/distance/flight/{fr24_id}?metric=2d|3d
func (h *Handlers) FlightDistanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		flightID := strings.TrimSpace(chi.URLParam(r, "fr24_id"))

		metricParam := r.URL.Query().Get("metric")
		if metricParam == "" {
			metricParam = geometry.Metric3D.String()
		}
		metric, ok := geometry.ParseMetric(metricParam)
		if !ok {
			common.RespondError(w, initTime, nil, constants.MsgInvalidMetric, http.StatusBadRequest)
			return
		}

		poi, ok := h.poiFromRequest(r)
		if !ok {
			common.RespondError(w, initTime, nil, constants.MsgInvalidPOI, http.StatusBadRequest)
			return
		}

		cp, err := h.deps.Services.Noise.FlightDistance(r.Context(), flightID, poi, metric)
		if err != nil {
			logging.Error("Distance calculation failed", "fr24_id", flightID, "error", err)
			common.RespondError(w, initTime, nil, "Failed to calculate distance", http.StatusInternalServerError)
			return
		}
		if cp == nil {
			common.RespondError(w, initTime, nil, "No result: flight has fewer than two track points", http.StatusNotFound)
			return
		}

		common.RespondSuccess(w, initTime, constants.MsgDistanceCalculated, dtos.FlightDistanceResponse{
			FlightID:     flightID,
			Metric:       metric.String(),
			ClosestPoint: *cp,
		})
	}
}
