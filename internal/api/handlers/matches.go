package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"swap-match-service/internal/api/dto"
	"swap-match-service/internal/config"
	"swap-match-service/internal/domain"
	"swap-match-service/internal/platform/obs"
	"swap-match-service/internal/ports"
	"swap-match-service/internal/services"
	"time"

	"go.uber.org/zap"
)

const (
	noMatchesMessage = "No matches found nearby."
	maxBodyBytes     = 1 << 16
)

// MatchHandler serves proximity match queries for swap listings.
// Limiter and Metrics are optional.
type MatchHandler struct {
	Repo    ports.ListingRepository
	Limiter ports.RateLimiter
	Metrics *obs.Metrics
	Match   config.MatchConfig
}

// FindMatch validates the request, runs the matching pipeline and shapes the
// result. Validation failures are 400s and never reach the store; every other
// failure is an opaque 500.
func (h *MatchHandler) FindMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	log := obs.Logger(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	requester, opts, err := h.decodeRequest(r)
	if err != nil {
		h.Metrics.ObserveRequest(obs.OutcomeInvalid)

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}

		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, r, http.StatusBadRequest, ve.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if h.Limiter != nil {
		// Limiter errors fail open; the limiter logs them.
		allowed, _ := h.Limiter.Allow(r.Context(), requester.OwnerID)
		if !allowed {
			h.Metrics.ObserveRequest(obs.OutcomeRateLimited)
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
	}

	ctx := r.Context()
	if h.Match.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Match.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := services.FindMatch(ctx, requester, h.Repo, opts)
	if err != nil {
		h.Metrics.ObserveRequest(obs.OutcomeError)
		log.Error("find match failed",
			zap.Error(err),
			zap.Bool("store_unavailable", errors.Is(err, domain.ErrStoreUnavailable)),
			zap.Bool("deadline_exceeded", errors.Is(err, context.DeadlineExceeded)),
		)
		WriteInternalError(w, r)
		return
	}
	h.Metrics.ObserveQuery(time.Since(start), len(res.Matches), res.Skipped)

	if res.Skipped > 0 {
		log.Info("candidates skipped", zap.Int("skipped", res.Skipped))
	}

	if len(res.Matches) == 0 {
		h.Metrics.ObserveRequest(obs.OutcomeNoMatches)
		writeJSON(w, r, http.StatusOK, dto.MessageResponse{Message: noMatchesMessage})
		return
	}

	out := dto.FindMatchResponse{Matches: make([]dto.MatchResponse, 0, len(res.Matches))}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, toMatchResponse(m))
	}

	h.Metrics.ObserveRequest(obs.OutcomeMatched)
	writeJSON(w, r, http.StatusOK, out)
}

func (h *MatchHandler) decodeRequest(r *http.Request) (domain.Requester, services.RankOptions, error) {
	var req dto.FindMatchRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		var te *json.UnmarshalTypeError
		switch {
		case errors.As(err, &te) && te.Field != "":
			return domain.Requester{}, services.RankOptions{}, &domain.ValidationError{
				Field:  te.Field,
				Reason: fmt.Sprintf("has invalid type %s", te.Value),
			}
		case errors.Is(err, io.EOF):
			return domain.Requester{}, services.RankOptions{}, &domain.ValidationError{Field: "body", Reason: "is required"}
		}
		return domain.Requester{}, services.RankOptions{}, fmt.Errorf("decode find match request: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return domain.Requester{}, services.RankOptions{}, &domain.ValidationError{Field: "body", Reason: "must contain only one JSON object"}
	}

	switch {
	case req.Size == nil:
		return domain.Requester{}, services.RankOptions{}, missing("size")
	case req.Gender == nil:
		return domain.Requester{}, services.RankOptions{}, missing("gender")
	case req.OwnerID == nil:
		return domain.Requester{}, services.RankOptions{}, missing("owner_id")
	case req.Latitude == nil:
		return domain.Requester{}, services.RankOptions{}, missing("latitude")
	case req.Longitude == nil:
		return domain.Requester{}, services.RankOptions{}, missing("longitude")
	}

	requester, err := services.NewRequester(*req.Size, *req.Gender, *req.OwnerID, *req.Latitude, *req.Longitude)
	if err != nil {
		return domain.Requester{}, services.RankOptions{}, err
	}

	opts, err := h.rankOptions(req)
	if err != nil {
		return domain.Requester{}, services.RankOptions{}, err
	}

	return requester, opts, nil
}

// Per-request overrides may widen the search up to the configured limits.
func (h *MatchHandler) rankOptions(req dto.FindMatchRequest) (services.RankOptions, error) {
	opts := services.RankOptions{
		MaxDistanceKm: h.Match.MaxDistanceKm,
		MaxResults:    h.Match.MaxResults,
	}

	if req.MaxDistanceKm != nil {
		d := *req.MaxDistanceKm
		if !(d > 0) || math.IsInf(d, 0) || d > h.Match.MaxDistanceLimitKm {
			return services.RankOptions{}, &domain.ValidationError{
				Field:  "max_distance_km",
				Reason: fmt.Sprintf("must be greater than 0 and at most %g", h.Match.MaxDistanceLimitKm),
			}
		}
		opts.MaxDistanceKm = d
	}

	if req.MaxResults != nil {
		n := *req.MaxResults
		if n < 1 || n > h.Match.MaxResultsLimit {
			return services.RankOptions{}, &domain.ValidationError{
				Field:  "max_results",
				Reason: fmt.Sprintf("must be between 1 and %d", h.Match.MaxResultsLimit),
			}
		}
		opts.MaxResults = n
	}

	return opts, nil
}

func missing(field string) error {
	return &domain.ValidationError{Field: field, Reason: "is required"}
}

func toMatchResponse(m domain.ScoredListing) dto.MatchResponse {
	l := m.Listing

	images := l.ImageURLs
	if images == nil {
		images = []string{}
	}

	res := dto.MatchResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Size:        l.Size,
		Gender:      l.Gender,
		Condition:   l.Condition,
		Brand:       l.Brand,
		Color:       l.Color,
		ImageURLs:   images,
		PointsValue: l.PointsValue,
		Available:   l.Available,
		DistanceKm:  m.DistanceKm,
	}
	if l.Position != nil {
		res.Location = &dto.LocationResponse{Type: "Point", Coordinates: l.Position.CoordsToList()}
	}
	if !l.CreatedAt.IsZero() {
		createdAt := l.CreatedAt
		res.CreatedAt = &createdAt
	}

	return res
}
