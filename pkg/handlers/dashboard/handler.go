package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/datocol/hidroatlas/pkg/adapters"
	"github.com/datocol/hidroatlas/pkg/models/api"
	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/services/dashboard"
	"github.com/datocol/hidroatlas/pkg/services/hierarchy"
	"github.com/datocol/hidroatlas/pkg/services/xm"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	dateLayout      = "2006-01-02"
	defaultInterval = 30 // days of history when no range is given
)

type Handler struct {
	explorer dashboard.Explorer
	sessions *hierarchy.SessionManager
}

func NewHandler(explorer dashboard.Explorer, sessions *hierarchy.SessionManager) *Handler {
	return &Handler{
		explorer: explorer,
		sessions: sessions,
	}
}

func (h *Handler) GetRegions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period, err := parsePeriod(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	rows, err := h.explorer.RegionContributions(ctx, period)
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	writeJSON(w, r, adapters.MapSharesDomainToApi(rows))
}

func (h *Handler) GetRegionRivers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	region := chi.URLParam(r, "region")

	period, err := parsePeriod(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	rows, err := h.explorer.RiverContributions(ctx, period, region)
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	writeJSON(w, r, adapters.MapSharesDomainToApi(rows))
}

func (h *Handler) GetRegionDaily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	region := chi.URLParam(r, "region")

	period, err := parsePeriod(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	daily, err := h.explorer.RegionDaily(ctx, period, region)
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	writeJSON(w, r, adapters.MapDailyValuesDomainToApi(daily))
}

func (h *Handler) GetRivers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period, err := parsePeriod(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	rows, err := h.explorer.RiverContributions(ctx, period, "")
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	writeJSON(w, r, adapters.MapSharesDomainToApi(rows))
}

func (h *Handler) GetRiverDaily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	river := chi.URLParam(r, "river")

	period, err := parsePeriod(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	daily, err := h.explorer.RiverDaily(ctx, period, river)
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	writeJSON(w, r, adapters.MapDailyValuesDomainToApi(daily))
}

func (h *Handler) GetReservoirs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	region := r.URL.Query().Get("region")

	rows, err := h.explorer.ReservoirShares(ctx, region)
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	writeJSON(w, r, adapters.MapSharesDomainToApi(rows))
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.Create()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(api.Session{Id: id}); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode session")
	}
}

func (h *Handler) GetSessionView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := chi.URLParam(r, "session")

	expanded, err := h.sessions.Get(session)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}

	rows, err := h.explorer.CapacityView(ctx, expanded)
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	writeJSON(w, r, adapters.MapHierarchyRowsDomainToApi(rows))
}

func (h *Handler) ToggleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := chi.URLParam(r, "session")

	var req api.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Region == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("region is required"))
		return
	}

	expanded, err := h.sessions.Toggle(session, req.Region)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}

	rows, err := h.explorer.CapacityView(ctx, expanded)
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	writeJSON(w, r, adapters.MapHierarchyRowsDomainToApi(rows))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// parsePeriod reads the optional from/to query params; the window
// defaults to the trailing 30 days.
func parsePeriod(r *http.Request) (domain.TimePeriod, error) {
	now := time.Now()

	end, err := parseDateParam(r, "to", now)
	if err != nil {
		return domain.TimePeriod{}, err
	}
	start, err := parseDateParam(r, "from", end.AddDate(0, 0, -defaultInterval))
	if err != nil {
		return domain.TimePeriod{}, err
	}
	return domain.Period(start, end), nil
}

func parseDateParam(r *http.Request, name string, defaultDate time.Time) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return defaultDate, nil
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.New("invalid '" + name + "' date format, expected YYYY-MM-DD")
	}
	return date, nil
}

func upstreamStatus(err error) int {
	if errors.Is(err, xm.ErrUpstreamUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, r *http.Request, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	zerolog.Ctx(r.Context()).Error().
		Err(err).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(api.Error{Error: err.Error()}); encodeErr != nil {
		zerolog.Ctx(r.Context()).Error().Err(encodeErr).Msg("failed to encode error response")
	}
}
