package medalfed

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pevans/medalfed/config"
	"github.com/pevans/medalfed/discovery"
	"github.com/pevans/medalfed/history"
	"github.com/pevans/medalfed/medals"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIServer serves the loaded medal data to presentation clients.
type APIServer struct {
	service     *Service
	configStore *config.ConfigStore
	history     *history.Store
	gatherer    prometheus.Gatherer
	defaults    config.Config
}

// APIOption configures an APIServer.
type APIOption func(*APIServer)

// WithConfigStore serves user preferences and uses them for request
// defaults.
func WithConfigStore(store *config.ConfigStore) APIOption {
	return func(a *APIServer) {
		a.configStore = store
	}
}

// WithPreferenceDefaults sets the URL and ranking size used when neither
// the request nor the stored preferences supply one.
func WithPreferenceDefaults(defaults config.Config) APIOption {
	return func(a *APIServer) {
		a.defaults = defaults
	}
}

// WithHistoryAPI serves the load history.
func WithHistoryAPI(store *history.Store) APIOption {
	return func(a *APIServer) {
		a.history = store
	}
}

// WithMetricsEndpoint serves gatherer at /metrics.
func WithMetricsEndpoint(gatherer prometheus.Gatherer) APIOption {
	return func(a *APIServer) {
		a.gatherer = gatherer
	}
}

// NewAPIServer creates a new API server.
func NewAPIServer(service *Service, opts ...APIOption) *APIServer {
	a := &APIServer{
		service: service,
		defaults: config.Config{
			DefaultURL: config.DefaultURL,
			TopK:       medals.DefaultTopK,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetupRouter configures the Gin router with all medal API routes.
func (a *APIServer) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	api.POST("/load", a.HandleLoad)
	api.GET("/status", a.HandleStatus)
	api.GET("/countries", a.HandleListCountries)
	api.GET("/countries/:name", a.HandleGetCountry)
	api.GET("/top", a.HandleTop)

	if a.configStore != nil {
		config.NewConfigAPIServer(a.configStore, a.defaults).Register(api)
	}
	if a.history != nil {
		history.NewAPIServer(a.history).Register(api)
	}
	if a.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})))
	}

	return router
}

// LoadRequest represents the request for POST /api/v1/load.
type LoadRequest struct {
	URL string `json:"url"`
}

// CountriesResponse represents the response for GET /api/v1/countries.
type CountriesResponse struct {
	Countries []string `json:"countries"`
	Total     int      `json:"total"`
}

// TopResponse represents the response for GET /api/v1/top.
type TopResponse struct {
	Records []medals.Record `json:"records"`
	K       int             `json:"k"`
}

// StatusResponse represents the response for GET /api/v1/status.
type StatusResponse struct {
	State     string `json:"state"`
	Loaded    bool   `json:"loaded"`
	Countries int    `json:"countries"`
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// preferences returns the stored user preferences over the server defaults.
// Store read failures fall back to the defaults.
func (a *APIServer) preferences() config.Config {
	if a.configStore == nil {
		return a.defaults
	}

	cfg, err := a.configStore.GetConfigWithDefaults(a.defaults)
	if err != nil {
		return a.defaults
	}
	return *cfg
}

// HandleLoad handles POST /api/v1/load.
func (a *APIServer) HandleLoad(c *gin.Context) {
	var req LoadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("bad_request", err.Error()))
			return
		}
	}

	if req.URL == "" {
		req.URL = a.preferences().DefaultURL
	}

	summary, err := a.service.LoadFromURL(c.Request.Context(), req.URL)
	if err != nil {
		a.handleLoadError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// handleLoadError maps pipeline failures to HTTP responses.
func (a *APIServer) handleLoadError(c *gin.Context, err error) {
	var transportErr *discovery.TransportError
	var parseErr *medals.ParseError

	switch {
	case errors.As(err, &transportErr):
		c.JSON(http.StatusBadGateway, errorResponse("transport_error", err.Error()))
	case errors.As(err, &parseErr):
		c.JSON(http.StatusUnprocessableEntity, errorResponse("parse_error", err.Error()))
	case errors.Is(err, ErrEmptyURL):
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", err.Error()))
	}
}

// HandleStatus handles GET /api/v1/status.
func (a *APIServer) HandleStatus(c *gin.Context) {
	ds, ok := a.service.Current()
	c.JSON(http.StatusOK, StatusResponse{
		State:     a.service.State().String(),
		Loaded:    ok,
		Countries: ds.Len(),
	})
}

// HandleListCountries handles GET /api/v1/countries.
func (a *APIServer) HandleListCountries(c *gin.Context) {
	countries := a.service.ListCountries()
	c.JSON(http.StatusOK, CountriesResponse{
		Countries: countries,
		Total:     len(countries),
	})
}

// HandleGetCountry handles GET /api/v1/countries/{name}.
func (a *APIServer) HandleGetCountry(c *gin.Context) {
	name := c.Param("name")

	record, err := a.service.CountryDetail(name)
	switch {
	case errors.Is(err, ErrNoDataset):
		c.JSON(http.StatusConflict, errorResponse("no_dataset", "Please load data first"))
		return
	case errors.Is(err, ErrCountryNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", "Country "+name+" not found"))
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", err.Error()))
		return
	}

	c.JSON(http.StatusOK, record)
}

// HandleTop handles GET /api/v1/top.
func (a *APIServer) HandleTop(c *gin.Context) {
	k := a.preferences().TopK
	if kParam := c.Query("k"); kParam != "" {
		parsed, err := strconv.Atoi(kParam)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid k parameter"))
			return
		}
		k = parsed
	}

	ranked, err := a.service.TopByTotal(k)
	if errors.Is(err, ErrNoDataset) {
		c.JSON(http.StatusConflict, errorResponse("no_dataset", "Please load data first"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", err.Error()))
		return
	}

	c.JSON(http.StatusOK, TopResponse{
		Records: []medals.Record(ranked),
		K:       k,
	})
}
