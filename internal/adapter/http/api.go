package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/couchcryptid/disaster-risk-service/internal/connectivity"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/location"
	"github.com/couchcryptid/disaster-risk-service/internal/prediction"
)

const maxBodyBytes = 1 << 20

// Predictor runs one prediction request.
type Predictor interface {
	Predict(ctx context.Context, category domain.Category, input domain.PredictionInput) (domain.PredictionResult, error)
}

// EventPublisher receives every prediction outcome.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.PredictionEvent) error
}

// APIOptions wires the API handlers. Weather and Events may be nil to
// disable those features.
type APIOptions struct {
	Predictor Predictor
	Board     *prediction.Board
	Weather   domain.WeatherFetcher
	Locator   *location.Resolver
	Tracker   *connectivity.Tracker
	Checker   connectivity.Checker
	Events    EventPublisher
}

// API serves the /api routes.
type API struct {
	opts   APIOptions
	logger *slog.Logger
}

// NewAPI creates the API handlers.
func NewAPI(opts APIOptions, logger *slog.Logger) *API {
	return &API{opts: opts, logger: logger}
}

// Register adds the /api routes to mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", a.handleCategories)
	mux.HandleFunc("POST /api/predictions/{category}", a.handlePredict)
	mux.HandleFunc("GET /api/predictions", a.handleBoard)
	mux.HandleFunc("GET /api/weather", a.handleWeather)
	mux.HandleFunc("GET /api/status", a.handleStatus)
	mux.HandleFunc("POST /api/status/check", a.handleStatusCheck)
}

type categoryView struct {
	Name   domain.Category `json:"name"`
	Title  string          `json:"title"`
	Fields []domain.Field  `json:"fields"`
}

func (a *API) handleCategories(w http.ResponseWriter, _ *http.Request) {
	out := make([]categoryView, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		out = append(out, categoryView{Name: c, Title: c.Title(), Fields: c.Fields()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handlePredict(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, err)
		return
	}

	raw, err := decodeFields(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	input, err := domain.ParseInput(category, raw)
	var result domain.PredictionResult
	if err == nil {
		result, err = a.opts.Predictor.Predict(r.Context(), category, input)
	}

	a.opts.Board.Record(category, result, err)
	a.publish(r.Context(), domain.NewPredictionEvent(category, input.City, result, err))

	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleBoard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.opts.Board.Snapshot())
}

func (a *API) handleWeather(w http.ResponseWriter, r *http.Request) {
	if a.opts.Weather == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Weather is not enabled"})
		return
	}

	q := r.URL.Query()
	coords, err := a.opts.Locator.Resolve(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := a.opts.Weather.FetchCurrentWeather(r.Context(), coords)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) handleStatus(w http.ResponseWriter, _ *http.Request) {
	state, _ := a.opts.Tracker.State()
	writeJSON(w, http.StatusOK, state)
}

func (a *API) handleStatusCheck(w http.ResponseWriter, r *http.Request) {
	state := a.opts.Checker.CheckService(r.Context())
	if r.Context().Err() != nil {
		return
	}
	a.opts.Tracker.Set(state)
	writeJSON(w, http.StatusOK, state)
}

// publish sends the event without letting a broker failure reach the caller.
func (a *API) publish(ctx context.Context, event domain.PredictionEvent) {
	if a.opts.Events == nil {
		return
	}
	if err := a.opts.Events.Publish(context.WithoutCancel(ctx), event); err != nil {
		a.logger.Error("publish prediction event failed", "id", event.ID, "category", event.Category, "error", err)
	}
}

// decodeFields reads a JSON object or a form body into raw field values.
func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		raw := make(map[string]any, len(r.PostForm))
		for k := range r.PostForm {
			raw[k] = r.PostForm.Get(k)
		}
		return raw, nil
	default:
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, errors.New("request body must be a JSON object")
		}
		return raw, nil
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Code = verr.Code
		body.Field = verr.Field
	}
	writeJSON(w, statusFor(err), body)
}

func statusFor(err error) int {
	var (
		validation  *domain.ValidationError
		unavailable *domain.ServiceUnavailableError
		transport   *domain.TransportError
		malformed   *domain.MalformedResponseError
		schema      *domain.InvalidResponseSchemaError
		loc         *domain.LocationUnavailableError
		weather     *domain.WeatherFetchError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &transport), errors.As(err, &malformed), errors.As(err, &schema):
		return http.StatusBadGateway
	case errors.As(err, &loc):
		return http.StatusUnprocessableEntity
	case errors.As(err, &weather):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
