package handler

import (
	"bytes"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"trends-go/internal/service"
	"trends-go/pkg/charts"
	"trends-go/pkg/logger"
	"trends-go/pkg/normalize"
	"trends-go/pkg/storage"
)

const csvFilename = "interest_over_time.csv"

// Controller serves the dashboard page and its JSON endpoints. Every
// request is tied to a browser session whose slot holds the latest
// analysis.
type Controller struct {
	analyzer *service.Analyzer
	sessions *storage.SessionStore
	page     *Page
	config   ControllerConfig
	log      *logger.Logger
}

type ControllerConfig struct {
	Title         string
	CookieName    string
	SessionTTL    time.Duration
	SecureCookies bool
}

// Alert is the message box above the charts.
type Alert struct {
	Open    bool   `json:"open"`
	Message string `json:"message"`
	Level   string `json:"level"`
}

// AnalyzeResponse is returned by POST /api/analyze.
type AnalyzeResponse struct {
	Alert     Alert          `json:"alert"`
	Status    storage.Status `json:"status"`
	Query     interface{}    `json:"query"`
	Truncated bool           `json:"truncated"`
}

type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Sessions  int    `json:"sessions"`
}

func NewController(analyzer *service.Analyzer, sessions *storage.SessionStore, page *Page, config ControllerConfig) *Controller {
	if config.CookieName == "" {
		config.CookieName = "trends_session"
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = storage.DefaultSessionTTL
	}
	return &Controller{
		analyzer: analyzer,
		sessions: sessions,
		page:     page,
		config:   config,
		log:      logger.GetLogger().Component("controller"),
	}
}

// Index renders the dashboard.
func (ctl *Controller) Index(c *fiber.Ctx) error {
	body, err := ctl.page.Render(newPageData(ctl.config.Title))
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(body)
}

// Analyze runs one fetch cycle for the caller's session.
func (ctl *Controller) Analyze(c *fiber.Ctx) error {
	var req service.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid analyze request")
	}

	slot := ctl.sessions.Slot(sessionID(c))
	result, err := ctl.analyzer.Analyze(c.UserContext(), slot, req)

	resp := AnalyzeResponse{
		Status:    result.Status,
		Query:     result.Query,
		Truncated: result.Truncated,
	}
	switch {
	case err != nil:
		resp.Alert = Alert{Open: true, Message: err.Error(), Level: alertLevel(service.KindOf(err))}
	case result.Message != "":
		resp.Alert = Alert{Open: true, Message: result.Message, Level: "info"}
	}
	return c.JSON(resp)
}

func alertLevel(kind service.ErrorKind) string {
	if kind == service.KindNoKeywords {
		return "warning"
	}
	return "danger"
}

func (ctl *Controller) TimeSeriesChart(c *fiber.Ctx) error {
	return figureJSON(c, ctl.analyzer.TimeSeriesFigure(ctl.latest(c)))
}

func (ctl *Controller) RegionMapChart(c *fiber.Ctx) error {
	return figureJSON(c, ctl.analyzer.RegionMapFigure(ctl.latest(c)))
}

// TopRegionsChart applies the slider values to the cached region table.
func (ctl *Controller) TopRegionsChart(c *fiber.Ctx) error {
	topN := c.QueryInt("top_n", normalize.DefaultTopN)
	minInterest := c.QueryInt("min_interest", 0)
	return figureJSON(c, ctl.analyzer.TopRegionsFigure(ctl.latest(c), topN, minInterest))
}

func (ctl *Controller) RelatedTable(c *fiber.Ctx) error {
	return c.JSON(ctl.analyzer.RelatedTable(ctl.latest(c)))
}

// Download sends the cached time series as CSV, or 204 when there is none.
func (ctl *Controller) Download(c *fiber.Ctx) error {
	var buf bytes.Buffer
	err := ctl.analyzer.TimeSeriesCSV(ctl.latest(c), &buf)
	if errors.Is(err, service.ErrNoData) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment(csvFilename)
	return c.Send(buf.Bytes())
}

// Analysis returns the cached tables in their transport form.
func (ctl *Controller) Analysis(c *fiber.Ctx) error {
	result := ctl.latest(c)
	if result == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(result)
}

func (ctl *Controller) Timeframes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default": normalize.DefaultTimeframe,
		"options": normalize.TimeframeOptions(),
	})
}

func (ctl *Controller) Health(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Sessions:  ctl.sessions.Len(),
	})
}

func (ctl *Controller) latest(c *fiber.Ctx) *storage.AnalysisResult {
	return ctl.sessions.Latest(sessionID(c))
}

func figureJSON(c *fiber.Ctx, fig *charts.Figure) error {
	if fig == nil {
		return c.JSON(fiber.Map{"figure": fiber.Map{}})
	}
	return c.JSON(fiber.Map{"figure": fig})
}
