package di

import (
	"fmt"
	"time"

	"TrenchScan/internal/domain/repository"
	"TrenchScan/internal/handler/api"
	"TrenchScan/internal/render"
	internalrepo "TrenchScan/internal/repository"
	"TrenchScan/internal/sequencer"
	"TrenchScan/internal/service/ratelimit"
	"TrenchScan/internal/service/scanner"
	tgtransport "TrenchScan/internal/transport/telegram"
	"TrenchScan/internal/usecase"
	"TrenchScan/pkg/cache"
	"TrenchScan/pkg/config"
	xhttp "TrenchScan/pkg/http"
	pkgkafka "TrenchScan/pkg/kafka"
	applogger "TrenchScan/pkg/logger"
	"TrenchScan/pkg/metrics"
	"TrenchScan/pkg/server"
)

// ProvideLogger creates the application logger. When events are enabled and
// a log topic is configured, error logs are aggregated and shipped to Kafka.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if producer != nil && cfg.Events.LogTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Events.LogTopic,
			Publisher:      internalrepo.NewLogSink(producer),
		})
	}

	return l, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideKafkaProducer creates a Kafka producer, or nil when events are
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Events.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Events.Linger),
		pkgkafka.WithTimeouts(cfg.Events.WriteTimeout, cfg.Events.ReadTimeout),
		pkgkafka.WithAsync(cfg.Events.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher creates the scan event publisher, or nil when events
// are disabled.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config, logger *applogger.Logger) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewEventPublisher(producer, cfg.Events.Topic, logger)
}

// ProvideCache creates the payload cache, or nil when caching is disabled.
// With Redis enabled the cache is layered (memory in front of Redis);
// otherwise a plain in-process cache serves.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(redisCache), nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideTelegramClient creates the Bot API client.
func ProvideTelegramClient(cfg *config.Config) *tgtransport.Client {
	return tgtransport.NewClient(cfg.Telegram.Token, cfg.Telegram.APIURL,
		tgtransport.WithRequestTimeout(cfg.Telegram.RequestTimeout))
}

// ProvideTransport creates the domain-facing chat transport.
func ProvideTransport(client *tgtransport.Client) repository.Transport {
	return tgtransport.NewTransport(client)
}

// ProvideAnalyzer creates the analysis API client.
func ProvideAnalyzer(cfg *config.Config, m repository.Metrics, logger *applogger.Logger) repository.Analyzer {
	return scanner.New(cfg.Scanner.BaseURL, cfg.Scanner.Timeout, m, logger)
}

// ProvideComposer creates the message composer with the fixed step catalog.
func ProvideComposer() *render.Composer {
	return render.NewComposer(render.DefaultCatalog())
}

// ProvideSequencer creates the reveal sequencer.
func ProvideSequencer(transport repository.Transport, composer *render.Composer, m repository.Metrics, logger *applogger.Logger, cfg *config.Config) *sequencer.Sequencer {
	return sequencer.New(transport, composer, m, logger, sequencer.Config{
		StepDelay:    cfg.Reveal.StepDelay,
		VerdictDelay: cfg.Reveal.VerdictDelay,
	})
}

// ProvideBot creates the message flow use case.
func ProvideBot(
	transport repository.Transport,
	analyzer repository.Analyzer,
	seq *sequencer.Sequencer,
	cacheSvc cache.Service,
	publisher repository.Publisher,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.Bot {
	return usecase.NewBot(transport, analyzer, seq, cacheSvc, publisher, ratelimit.New(), m, logger, usecase.Config{
		CacheTTL:     cfg.Cache.TTL,
		RateCapacity: cfg.RateLimit.Capacity,
		RateRefill:   cfg.RateLimit.RefillPerSec,
	})
}

// ProvidePoller creates the long-poll loop feeding the bot.
func ProvidePoller(client *tgtransport.Client, bot *usecase.Bot, cfg *config.Config, logger *applogger.Logger) *tgtransport.Poller {
	return tgtransport.NewPoller(client, bot,
		time.Duration(cfg.Telegram.PollingTimeout)*time.Second, logger)
}

// ProvideHTTPHandler creates the ops HTTP handler.
func ProvideHTTPHandler(composer *render.Composer, logger *applogger.Logger) xhttp.Handler {
	return api.NewHandler(composer, logger)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	poller *tgtransport.Poller,
	httpHandler xhttp.Handler,
	publisher repository.Publisher,
	logger *applogger.Logger,
) *server.App {
	return server.New(cfg, poller, httpHandler, publisher, logger)
}
