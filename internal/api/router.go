// Package api serves the facade over a local HTTP API for GUI shells.
package api

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bplaunch/bplaunch/internal/app"
	"github.com/bplaunch/bplaunch/internal/launch"
	"github.com/bplaunch/bplaunch/internal/settings"
)

type Router struct {
	facade *app.Facade
}

// NewRouter builds the engine. Extra middleware runs after recovery.
func NewRouter(f *app.Facade, middleware ...gin.HandlerFunc) *gin.Engine {
	r := &Router{facade: f}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware...)
	r.register(engine)
	return engine
}

func (r *Router) register(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	browsers := engine.Group("/browsers")
	{
		browsers.GET("/detect", r.detectBrowsers)
		browsers.POST("", r.createBrowser)
		browsers.PUT(":id/path", r.setBrowserPath)
	}

	cfg := engine.Group("/settings")
	{
		cfg.GET("", r.getSettings)
		cfg.PUT("", r.saveSettings)
		cfg.GET("/path", r.getSettingsPath)
		cfg.POST("/export", r.exportSettings)
		cfg.POST("/import", r.importSettings)
	}

	engine.GET("/autostart", r.getAutostart)
	engine.PUT("/autostart", r.setAutostart)

	sites := engine.Group("/sites")
	{
		sites.POST("", r.createSite)
		sites.DELETE(":id", r.deleteSite)
		sites.POST(":id/launch", r.launchSite)
	}

	proxies := engine.Group("/proxies")
	{
		proxies.POST("", r.createProxy)
		proxies.DELETE(":id", r.deleteProxy)
		proxies.POST(":id/launch", r.launchProxy)
	}

	engine.POST("/tray/refresh", r.refreshTray)
	engine.POST("/window/toggle", r.toggleWindow)
	engine.POST("/quit", r.quit)
}

func (r *Router) detectBrowsers(c *gin.Context) {
	c.JSON(http.StatusOK, r.facade.DetectBrowsers())
}

func (r *Router) createBrowser(c *gin.Context) {
	var browser settings.BrowserRecord
	if err := c.ShouldBindJSON(&browser); err != nil {
		badRequest(c, err)
		return
	}
	created, err := r.facade.AddBrowser(browser)
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (r *Router) setBrowserPath(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := r.facade.SetBrowserPath(c.Param("id"), req.Path)
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (r *Router) getSettings(c *gin.Context) {
	cfg, err := r.facade.LoadSettings()
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (r *Router) saveSettings(c *gin.Context) {
	cfg := settings.Default()
	if err := c.ShouldBindJSON(cfg); err != nil {
		badRequest(c, err)
		return
	}
	if err := r.facade.SaveSettings(settings.Normalize(cfg)); err != nil {
		r.handleError(c, err)
		return
	}
	saved, err := r.facade.LoadSettings()
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (r *Router) getSettingsPath(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"path": r.facade.GetSettingsPath()})
}

type pathRequest struct {
	Path string `json:"path" binding:"required"`
}

func (r *Router) exportSettings(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := r.facade.ExportSettings(req.Path); err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": req.Path})
}

func (r *Router) importSettings(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cfg, err := r.facade.ImportSettings(req.Path)
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type autostartRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (r *Router) getAutostart(c *gin.Context) {
	enabled, err := r.facade.GetAutostartStatus()
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

func (r *Router) setAutostart(c *gin.Context) {
	var req autostartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := r.facade.SetAutostart(*req.Enabled); err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
}

func (r *Router) createSite(c *gin.Context) {
	var site settings.SiteRecord
	if err := c.ShouldBindJSON(&site); err != nil {
		badRequest(c, err)
		return
	}
	created, err := r.facade.AddSite(site)
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (r *Router) deleteSite(c *gin.Context) {
	if err := r.facade.RemoveSite(c.Param("id")); err != nil {
		r.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) launchSite(c *gin.Context) {
	if err := r.facade.LaunchSite(c.Param("id")); err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"launched": c.Param("id")})
}

func (r *Router) createProxy(c *gin.Context) {
	var proxy settings.ProxyRecord
	if err := c.ShouldBindJSON(&proxy); err != nil {
		badRequest(c, err)
		return
	}
	created, err := r.facade.AddProxy(proxy)
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (r *Router) deleteProxy(c *gin.Context) {
	removed, err := r.facade.RemoveProxy(c.Param("id"))
	if err != nil {
		r.handleError(c, err)
		return
	}
	if removed == nil {
		removed = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"removedSites": removed})
}

func (r *Router) launchProxy(c *gin.Context) {
	if err := r.facade.LaunchProxy(c.Param("id")); err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"launched": c.Param("id")})
}

func (r *Router) refreshTray(c *gin.Context) {
	if err := r.facade.RefreshTray(); err != nil {
		r.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) toggleWindow(c *gin.Context) {
	if err := r.facade.ToggleMainWindow(); err != nil {
		r.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) quit(c *gin.Context) {
	c.Status(http.StatusAccepted)
	c.Writer.WriteHeaderNow()
	go r.facade.Quit()
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (r *Router) handleError(c *gin.Context, err error) {
	var nf *app.NotFoundError
	if errors.As(err, &nf) || errors.Is(err, launch.ErrBrowserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var ve *app.ValidationError
	if errors.As(err, &ve) || errors.Is(err, fs.ErrNotExist) {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
