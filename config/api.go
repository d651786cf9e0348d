package config

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// ConfigAPIServer represents the HTTP API server for user preferences.
type ConfigAPIServer struct {
	store    *ConfigStore
	defaults Config
}

// NewConfigAPIServer creates a new config API server. Unset preferences are
// reported from defaults, which should match what the caller acts on.
func NewConfigAPIServer(store *ConfigStore, defaults Config) *ConfigAPIServer {
	return &ConfigAPIServer{
		store:    store,
		defaults: defaults,
	}
}

// Register mounts the config routes on the given group.
func (c *ConfigAPIServer) Register(group *gin.RouterGroup) {
	group.GET("/config", c.HandleGetConfig)
	group.PUT("/config", c.HandleUpdateConfig)
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

// HandleGetConfig handles GET /api/v1/config.
func (c *ConfigAPIServer) HandleGetConfig(ctx *gin.Context) {
	config, err := c.store.GetConfigWithDefaults(c.defaults)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to retrieve configuration"))
		return
	}

	ctx.JSON(http.StatusOK, config)
}

// HandleUpdateConfig handles PUT /api/v1/config.
func (c *ConfigAPIServer) HandleUpdateConfig(ctx *gin.Context) {
	var updates Config
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("bad_request", err.Error()))
		return
	}

	if err := Validate(&updates); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	if err := c.store.UpdateConfig(&updates); err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to update configuration"))
		return
	}

	config, err := c.store.GetConfigWithDefaults(c.defaults)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to retrieve configuration"))
		return
	}

	ctx.JSON(http.StatusOK, config)
}

// Validate checks the fields of a preference update. Zero fields are
// allowed and mean "unchanged".
func Validate(cfg *Config) error {
	if cfg.TopK < 0 {
		return errors.New("invalid top_k: must not be negative")
	}

	if cfg.DefaultURL != "" {
		u, err := url.Parse(cfg.DefaultURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("invalid default_url: must be an http or https URL")
		}
	}

	return nil
}
