package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"

	"trends-go/pkg/frame"
	"trends-go/pkg/logger"
	"trends-go/pkg/monitor"
)

const (
	DefaultBaseURL  = "https://trends.google.com/trends"
	DefaultLanguage = "en-US"
	DefaultTZ       = 360

	endpointExplore  = "explore"
	endpointTimeline = "multiline"
	endpointGeo      = "comparedgeo"
	endpointRelated  = "relatedsearches"
)

// ClientConfig configures a TrendsClient session.
type ClientConfig struct {
	BaseURL         string           `mapstructure:"base_url"`
	Language        string           `mapstructure:"language"`
	TZ              int              `mapstructure:"tz"`
	Retries         int              `mapstructure:"retries"`
	BackoffFactor   time.Duration    `mapstructure:"backoff_factor"`
	QPS             float64          `mapstructure:"qps"`
	Burst           int              `mapstructure:"burst"`
	WarmupCookies   bool             `mapstructure:"warmup_cookies"`
	BreakerFailures int              `mapstructure:"breaker_failures"`
	BreakerCooldown time.Duration    `mapstructure:"breaker_cooldown"`
	Connection      ConnectionConfig `mapstructure:"connection"`
}

// DefaultClientConfig mirrors a typical browser session in the US.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:         DefaultBaseURL,
		Language:        DefaultLanguage,
		TZ:              DefaultTZ,
		Retries:         2,
		BackoffFactor:   300 * time.Millisecond,
		QPS:             2,
		Burst:           1,
		WarmupCookies:   true,
		BreakerFailures: 5,
		BreakerCooldown: time.Minute,
		Connection:      DefaultConnectionConfig(),
	}
}

// payload is the comparison selected by the last BuildPayload call.
type payload struct {
	keywords  []string
	timeframe string
	geo       string
	widgets   *ExploreWidgets
}

// TrendsClient speaks the trends widget protocol: an explore call returns
// widget tokens, then each dataset is fetched from its widget endpoint.
type TrendsClient struct {
	config      ClientConfig
	connManager *ConnectionManager
	retry       *SimpleRetry
	breaker     *CircuitBreaker
	limiter     *Limiter
	parser      *Parser
	log         *logger.Logger

	mu      sync.Mutex
	current *payload
	nid     string
	warmed  bool

	totalRequests  uint64
	failedRequests uint64
}

var _ Provider = (*TrendsClient)(nil)

func NewTrendsClient(config ClientConfig) *TrendsClient {
	defaults := DefaultClientConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Language == "" {
		config.Language = defaults.Language
	}
	if config.BackoffFactor <= 0 {
		config.BackoffFactor = defaults.BackoffFactor
	}

	return &TrendsClient{
		config:      config,
		connManager: NewConnectionManager(config.Connection),
		retry:       NewSimpleRetry(config.Retries, config.BackoffFactor),
		breaker:     NewCircuitBreaker(config.BreakerFailures, config.BreakerCooldown),
		limiter:     NewLimiter(config.QPS, config.Burst),
		parser:      NewParser(),
		log:         logger.GetLogger().Component("trends_client"),
	}
}

// BuildPayload runs the explore call for the comparison and remembers the
// returned widgets for the fetch calls that follow.
func (c *TrendsClient) BuildPayload(ctx context.Context, keywords []string, timeframe, geo string) error {
	if len(keywords) == 0 {
		return ErrNoKeywords
	}

	c.warmup(ctx)

	items := make([]map[string]string, 0, len(keywords))
	for _, kw := range keywords {
		items = append(items, map[string]string{"keyword": kw, "time": timeframe, "geo": geo})
	}
	req, err := json.Marshal(map[string]interface{}{
		"comparisonItem": items,
		"category":       0,
		"property":       "",
	})
	if err != nil {
		return fmt.Errorf("encode explore request: %w", err)
	}

	params := url.Values{}
	params.Set("hl", c.config.Language)
	params.Set("tz", strconv.Itoa(c.config.TZ))
	params.Set("req", string(req))

	body, err := c.do(ctx, endpointExplore, fasthttp.MethodPost, c.config.BaseURL+"/api/explore?"+params.Encode())
	if err != nil {
		return err
	}
	widgets, err := c.parser.ParseExplore(body)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.current = &payload{
		keywords:  append([]string(nil), keywords...),
		timeframe: timeframe,
		geo:       geo,
		widgets:   widgets,
	}
	c.mu.Unlock()

	c.log.WithFields(map[string]interface{}{
		"keywords":        len(keywords),
		"timeframe":       timeframe,
		"geo":             geo,
		"related_widgets": len(widgets.Related),
	}).Debug("Payload built")
	return nil
}

// InterestOverTime fetches the time series for the current payload. The
// result carries an isPartial column next to the keyword columns.
func (c *TrendsClient) InterestOverTime(ctx context.Context) (*frame.Frame, error) {
	p, err := c.payload()
	if err != nil {
		return nil, err
	}
	if p.widgets.TimeSeries == nil {
		return nil, fmt.Errorf("%s: %w", endpointTimeline, ErrWidgetMissing)
	}

	body, err := c.fetchWidget(ctx, endpointTimeline, p.widgets.TimeSeries.Request, p.widgets.TimeSeries.Token)
	if err != nil {
		return nil, err
	}
	return c.parser.ParseTimeline(body, p.keywords)
}

// InterestByRegion fetches the comparison map for the current payload.
func (c *TrendsClient) InterestByRegion(ctx context.Context, resolution Resolution) (*frame.Frame, error) {
	p, err := c.payload()
	if err != nil {
		return nil, err
	}
	if p.widgets.GeoMap == nil {
		return nil, fmt.Errorf("%s: %w", endpointGeo, ErrWidgetMissing)
	}
	if resolution == "" {
		resolution = ResolutionCountry
	}

	request := make(map[string]interface{}, len(p.widgets.GeoMap.Request)+2)
	for k, v := range p.widgets.GeoMap.Request {
		request[k] = v
	}
	if p.geo == "" || (p.geo == "US" && resolution != ResolutionCountry) {
		request["resolution"] = string(resolution)
	}
	request["includeLowSearchVolumeGeos"] = false

	body, err := c.fetchWidget(ctx, endpointGeo, request, p.widgets.GeoMap.Token)
	if err != nil {
		return nil, err
	}
	return c.parser.ParseGeoMap(body, p.keywords)
}

// RelatedQueries fetches top and rising related queries for every keyword
// of the current payload.
func (c *TrendsClient) RelatedQueries(ctx context.Context) (RelatedQueries, error) {
	p, err := c.payload()
	if err != nil {
		return nil, err
	}

	out := make(RelatedQueries, len(p.widgets.Related))
	for _, w := range p.widgets.Related {
		body, err := c.fetchWidget(ctx, endpointRelated, w.Request, w.Token)
		if err != nil {
			return nil, err
		}
		bundle, err := c.parser.ParseRelated(body)
		if err != nil {
			return nil, err
		}
		out[w.Keyword()] = bundle
	}
	return out, nil
}

// Stats returns request counters since the client was created.
func (c *TrendsClient) Stats() (total, failed uint64) {
	return atomic.LoadUint64(&c.totalRequests), atomic.LoadUint64(&c.failedRequests)
}

func (c *TrendsClient) Close() {
	c.connManager.Close()
}

func (c *TrendsClient) payload() (*payload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, ErrNoPayload
	}
	return c.current, nil
}

func (c *TrendsClient) fetchWidget(ctx context.Context, endpoint string, request map[string]interface{}, token string) ([]byte, error) {
	req, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", endpoint, err)
	}
	params := url.Values{}
	params.Set("req", string(req))
	params.Set("token", token)
	params.Set("tz", strconv.Itoa(c.config.TZ))

	return c.do(ctx, endpoint, fasthttp.MethodGet, c.config.BaseURL+"/api/widgetdata/"+endpoint+"?"+params.Encode())
}

// warmup visits the home page once to pick up the NID cookie. Failure only
// costs a higher chance of being throttled, so it is logged and ignored.
func (c *TrendsClient) warmup(ctx context.Context) {
	c.mu.Lock()
	if !c.config.WarmupCookies || c.warmed {
		c.mu.Unlock()
		return
	}
	c.warmed = true
	c.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	home := strings.TrimSuffix(c.config.BaseURL, "/trends") + "/?geo=" + url.QueryEscape(c.languageCountry())
	req.SetRequestURI(home)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.connManager.Do(req, resp); err != nil {
		c.log.WithError(err).Warn("Cookie warm-up failed")
		return
	}

	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey("NID")
	if resp.Header.Cookie(cookie) {
		c.mu.Lock()
		c.nid = string(cookie.Value())
		c.mu.Unlock()
	}
}

func (c *TrendsClient) languageCountry() string {
	lang := c.config.Language
	if idx := strings.LastIndexAny(lang, "-_"); idx >= 0 && idx < len(lang)-1 {
		return strings.ToUpper(lang[idx+1:])
	}
	return "US"
}

// do sends one logical request, retrying throttled and failed attempts.
// The breaker sees the outcome after retries are exhausted.
func (c *TrendsClient) do(ctx context.Context, endpoint, method, uri string) ([]byte, error) {
	atomic.AddUint64(&c.totalRequests, 1)

	var body []byte
	attempt := 0
	err := c.breaker.Execute(ctx, func() error {
		return c.retry.Execute(ctx, func() error {
			if attempt > 0 {
				monitor.ProviderRetriesTotal.WithLabelValues(endpoint).Inc()
			}
			attempt++
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			var err error
			body, err = c.doOnce(ctx, endpoint, method, uri)
			return err
		})
	})
	if err != nil {
		atomic.AddUint64(&c.failedRequests, 1)
		c.log.WithError(err).WithFields(map[string]interface{}{
			"endpoint":     endpoint,
			"attempts":     attempt,
			"max_attempts": c.retry.Attempts(),
		}).Warn("Provider request failed")
		return nil, err
	}
	return body, nil
}

func (c *TrendsClient) doOnce(ctx context.Context, endpoint, method, uri string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", c.config.Language)

	c.mu.Lock()
	nid := c.nid
	c.mu.Unlock()
	if nid != "" {
		req.Header.SetCookie("NID", nid)
	}

	timeout := c.connManager.Config().RequestTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	start := time.Now()
	err := c.connManager.Client().DoTimeout(req, resp, timeout)
	monitor.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		monitor.ProviderRequestsTotal.WithLabelValues(endpoint, monitor.OutcomeError).Inc()
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		monitor.ProviderRequestsTotal.WithLabelValues(endpoint, monitor.OutcomeError).Inc()
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode(), Body: snippet(resp.Body())}
	}

	monitor.ProviderRequestsTotal.WithLabelValues(endpoint, monitor.OutcomeOK).Inc()
	return append([]byte(nil), resp.Body()...), nil
}
