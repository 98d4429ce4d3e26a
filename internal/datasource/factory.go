package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/config"
)

// Factory builds the data source stack from configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) (*Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Factory{
		logger: logger,
		config: cfg,
	}, nil
}

// NewFeedClient creates the stats feed client together with its rate-limited
// HTTP client and response cache
func (f *Factory) NewFeedClient() (*SportsfeedClient, error) {
	srcCfg := f.config.Source

	switch srcCfg.Name {
	case sportsfeedSourceName, "":
	default:
		return nil, fmt.Errorf("unknown data source: %s", srcCfg.Name)
	}

	if !srcCfg.Enabled {
		return nil, fmt.Errorf("no enabled data source configured")
	}
	if srcCfg.APIKey == "" {
		return nil, fmt.Errorf("sportsfeed API key is required")
	}

	httpCfg := DefaultHTTPClientConfig()
	if srcCfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(srcCfg.TimeoutSeconds) * time.Second
	}
	if srcCfg.RetryMax > 0 {
		httpCfg.MaxRetries = srcCfg.RetryMax
	}
	if srcCfg.RateLimitPerSecond > 0 {
		httpCfg.RateLimit = srcCfg.RateLimitPerSecond
	}

	httpClient := NewRateLimitedHTTPClient(httpCfg, f.logger)

	var cache *FeedCache
	if srcCfg.CacheTTLSeconds > 0 {
		cache = NewFeedCache(time.Duration(srcCfg.CacheTTLSeconds)*time.Second, srcCfg.CacheMaxEntries)
	}

	client := NewSportsfeedClient(httpClient, cache, srcCfg.BaseURL, srcCfg.APIKey, srcCfg.Enabled, f.logger)

	f.logger.WithFields(logrus.Fields{
		"source":   client.Name(),
		"base_url": srcCfg.BaseURL,
		"cached":   cache != nil,
	}).Info("Created data source")

	return client, nil
}

// NewStreamClient creates the live score stream client. Callers should only
// ask for one when the stream is enabled in configuration.
func (f *Factory) NewStreamClient() (*ScoreStreamClient, error) {
	streamCfg := f.config.Stream

	if !streamCfg.Enabled {
		return nil, fmt.Errorf("score stream is not enabled")
	}
	if streamCfg.URL == "" {
		return nil, fmt.Errorf("score stream URL is required")
	}

	client := NewScoreStreamClient(streamCfg.URL, streamCfg.APIKey, f.logger)

	if streamCfg.ReconnectMaxRetries > 0 {
		reconnect := DefaultReconnectConfig()
		reconnect.MaxRetries = streamCfg.ReconnectMaxRetries
		client.SetReconnectConfig(reconnect)
	}

	f.logger.WithField("url", streamCfg.URL).Info("Created score stream client")

	return client, nil
}
