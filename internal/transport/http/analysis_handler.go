package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"stockpulse/internal/config"
	apierrors "stockpulse/internal/errors"
	"stockpulse/internal/services"
)

// AnalysisHandler handles file analysis HTTP requests
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	exporter     ReportExporter
	upload       config.UploadConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewAnalysisHandler creates a new analysis handler. The exporter may
// be nil, in which case export requests are rejected.
func NewAnalysisHandler(service AnalysisServiceInterface, exporter ReportExporter, upload config.UploadConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		service:      service,
		exporter:     exporter,
		upload:       upload,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/analyze", h.Analyze)
	r.Get("/params", h.Params)

	return r
}

// analyzeOverrides are the optional per-request parameter overrides.
// Nil fields fall back to the service defaults.
type analyzeOverrides struct {
	MaxDays              *int     `validate:"omitempty,gte=2,lte=3650"`
	LargeChangeDeltaPct  *float64 `validate:"omitempty,gt=0"`
	VolumeSpikeThreshold *float64 `validate:"omitempty,gt=0"`
	MAWindow             *int     `validate:"omitempty,gte=1,lte=365"`
	BollingerWindow      *int     `validate:"omitempty,gte=2,lte=365"`
	BollingerNStd        *float64 `validate:"omitempty,gt=0"`
	RSIWindow            *int     `validate:"omitempty,gte=1,lte=365"`
	Export               bool
}

// Analyze handles POST /api/analyze. It accepts a multipart form with
// one or more files under the "files" field plus optional parameter
// overrides, and returns one result record per uploaded file in
// upload order.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.upload.MaxMemoryBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(
			fmt.Errorf("malformed multipart form: %w", err)))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoFiles)
		return
	}
	if len(files) > h.upload.MaxFiles {
		h.errorHandler.HandleError(w, r, apierrors.TooManyFilesError(len(files), h.upload.MaxFiles))
		return
	}

	overrides, err := h.parseOverrides(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	inputs := make([]services.FileInput, 0, len(files))
	for _, fh := range files {
		if fh.Size > h.upload.MaxFileBytes {
			h.errorHandler.HandleError(w, r, apierrors.FileTooLargeError(fh.Filename, h.upload.MaxFileBytes))
			return
		}

		f, err := fh.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(
				fmt.Errorf("opening %s: %w", fh.Filename, err)))
			return
		}
		defer f.Close()

		inputs = append(inputs, services.FileInput{Name: fh.Filename, Reader: f})
	}

	opts := h.applyOverrides(overrides)

	h.logger.InfoContext(ctx, "analysis request",
		slog.Int("files", len(inputs)),
		slog.Bool("export", overrides.Export))

	results := h.service.AnalyzeBatch(ctx, inputs, opts)

	failures := 0
	for _, res := range results {
		if !res.Success {
			failures++
		}
	}

	response := map[string]interface{}{
		"status":   "success",
		"results":  results,
		"count":    len(results),
		"failures": failures,
	}

	if overrides.Export {
		if h.exporter == nil {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusServiceUnavailable, "EXPORT_DISABLED", "Report export is not configured"))
			return
		}
		path, err := h.exporter.WriteReport(results)
		if err != nil {
			h.logger.ErrorContext(ctx, "report export failed",
				slog.String("error", err.Error()))
			h.errorHandler.HandleError(w, r, err)
			return
		}
		response["report"] = path
	}

	render.JSON(w, r, response)
}

// Params handles GET /api/params and returns the effective analysis
// defaults, so clients can pre-fill override forms.
func (h *AnalysisHandler) Params(w http.ResponseWriter, r *http.Request) {
	defaults := h.service.Defaults()
	render.JSON(w, r, map[string]interface{}{
		"max_days": defaults.MaxDays,
		"params":   defaults.Params,
	})
}

// parseOverrides reads optional form fields into analyzeOverrides and
// validates the ones that were supplied.
func (h *AnalysisHandler) parseOverrides(r *http.Request) (analyzeOverrides, error) {
	var o analyzeOverrides
	var err error

	if o.MaxDays, err = formInt(r, "max_days"); err != nil {
		return o, apierrors.ErrValidation("max_days", err.Error())
	}
	if o.LargeChangeDeltaPct, err = formFloat(r, "large_change_delta_pct"); err != nil {
		return o, apierrors.ErrValidation("large_change_delta_pct", err.Error())
	}
	if o.VolumeSpikeThreshold, err = formFloat(r, "volume_spike_threshold"); err != nil {
		return o, apierrors.ErrValidation("volume_spike_threshold", err.Error())
	}
	if o.MAWindow, err = formInt(r, "ma_window"); err != nil {
		return o, apierrors.ErrValidation("ma_window", err.Error())
	}
	if o.BollingerWindow, err = formInt(r, "bollinger_window"); err != nil {
		return o, apierrors.ErrValidation("bollinger_window", err.Error())
	}
	if o.BollingerNStd, err = formFloat(r, "bollinger_n_std"); err != nil {
		return o, apierrors.ErrValidation("bollinger_n_std", err.Error())
	}
	if o.RSIWindow, err = formInt(r, "rsi_window"); err != nil {
		return o, apierrors.ErrValidation("rsi_window", err.Error())
	}

	switch r.FormValue("export") {
	case "", "0", "false":
	case "1", "true":
		o.Export = true
	default:
		return o, apierrors.ErrValidation("export", "must be a boolean")
	}

	if err := h.validate.Struct(o); err != nil {
		var details []apierrors.ValidationError
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				details = append(details, apierrors.ValidationError{
					Field:   ve.Field(),
					Message: fmt.Sprintf("failed %s validation", ve.Tag()),
				})
			}
		}
		return o, apierrors.NewValidationErrors(details)
	}

	return o, nil
}

// applyOverrides merges supplied overrides onto the service defaults
func (h *AnalysisHandler) applyOverrides(o analyzeOverrides) services.Options {
	opts := h.service.Defaults()

	if o.MaxDays != nil {
		opts.MaxDays = *o.MaxDays
	}
	if o.LargeChangeDeltaPct != nil {
		opts.Params.LargeChangeDeltaPct = *o.LargeChangeDeltaPct
	}
	if o.VolumeSpikeThreshold != nil {
		opts.Params.VolumeSpikeThreshold = *o.VolumeSpikeThreshold
	}
	if o.MAWindow != nil {
		opts.Params.MAWindow = *o.MAWindow
	}
	if o.BollingerWindow != nil {
		opts.Params.BollingerWindow = *o.BollingerWindow
	}
	if o.BollingerNStd != nil {
		opts.Params.BollingerNStd = *o.BollingerNStd
	}
	if o.RSIWindow != nil {
		opts.Params.RSIWindow = *o.RSIWindow
	}

	return opts
}

func formInt(r *http.Request, field string) (*int, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("must be an integer")
	}
	return &v, nil
}

func formFloat(r *http.Request, field string) (*float64, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("must be a number")
	}
	return &v, nil
}
