package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/hariprasanth02/2203031240132/internal/events"
	"github.com/hariprasanth02/2203031240132/internal/handlers"
	"github.com/hariprasanth02/2203031240132/internal/health"
	"github.com/hariprasanth02/2203031240132/internal/logging"
	"github.com/hariprasanth02/2203031240132/internal/messaging"
	"github.com/hariprasanth02/2203031240132/internal/middleware"
	"github.com/hariprasanth02/2203031240132/internal/shortener"
	"github.com/hariprasanth02/2203031240132/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// ConsumerGroupName identifies recorder processes sharing the Redis stream.
const ConsumerGroupName = "shortener-recorder"

const connectTimeout = 5 * time.Second

// RedisClient owns the shared Redis connection so the injector closes it.
type RedisClient struct {
	*redis.Client
}

func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// PostgresPool owns the shared pgx pool so the injector closes it.
type PostgresPool struct {
	*pgxpool.Pool
}

func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return logging.New(opts.LogFormat, opts.LogLevel)
	})
}

func ClockPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (shortener.Clock, error) {
		return shortener.SystemClock{}, nil
	})
}

func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return &PostgresPool{Pool: pool}, nil
	})

	do.Provide(i, func(i *do.Injector) (*store.PostgresStore, error) {
		pool := do.MustInvoke[*PostgresPool](i)
		pgStore := store.NewPostgresStore(pool.Pool)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := pgStore.EnsureSchema(ctx); err != nil {
			return nil, err
		}

		return pgStore, nil
	})
}

// RegistryPackage provides the configured shortener.Registry and the
// health checkers for whichever backends are in use.
func RegistryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.Registry, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Store {
		case StoreRedis:
			return store.NewRedisStore(do.MustInvoke[*RedisClient](i).Client), nil
		case StorePostgres:
			pgStore, err := do.Invoke[*store.PostgresStore](i)
			if err != nil {
				return nil, err
			}

			return pgStore, nil
		default:
			return store.NewMemoryStore(), nil
		}
	})

	do.Provide(i, func(i *do.Injector) (map[string]health.Checker, error) {
		opts := do.MustInvoke[*Options](i)
		checkers := map[string]health.Checker{}

		if opts.Store == StoreRedis || opts.Events == EventsRedis {
			checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
		}

		if opts.Store == StorePostgres {
			pgStore, err := do.Invoke[*store.PostgresStore](i)
			if err != nil {
				return nil, err
			}

			checkers["postgres"] = pgStore
		}

		return checkers, nil
	})
}

// EventsPackage provides the metrics registry, the event transport and
// the shortener.EventSink that feeds them.
func EventsPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		return reg, nil
	})

	do.Provide(i, func(i *do.Injector) (*gochannel.GoChannel, error) {
		return messaging.NewChannel(do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		switch opts.Events {
		case EventsChannel:
			return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
		case EventsRedis:
			publisher, err := messaging.NewRedisPublisher(do.MustInvoke[*RedisClient](i).Client, logger)
			if err != nil {
				return nil, err
			}

			return messaging.NewPublisherGroup(publisher), nil
		default:
			return nil, fmt.Errorf("events transport %q has no publisher", opts.Events)
		}
	})

	do.Provide(i, func(i *do.Injector) (shortener.EventSink, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i).Named("events")

		metrics, err := events.NewMetricsSink(do.MustInvoke[*prometheus.Registry](i))
		if err != nil {
			return nil, err
		}

		if opts.Events == EventsLog {
			return events.Multi{events.NewLoggerSink(logger), metrics}, nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		publish := messaging.NewPublishFunc[shortener.Event](group.Publisher(), events.TopicEvents)

		return events.Multi{events.NewPublisherSink(publish, logger), metrics}, nil
	})
}

func ShortenerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.CodeGenerator, error) {
		opts := do.MustInvoke[*Options](i)

		draw, err := shortener.NewDraw(shortener.Alphanumeric, opts.CodeLength)
		if err != nil {
			return nil, err
		}

		registry, err := do.Invoke[shortener.Registry](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewCodeGenerator(registry, draw), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		codes, err := do.Invoke[*shortener.CodeGenerator](i)
		if err != nil {
			return nil, err
		}

		sink, err := do.Invoke[shortener.EventSink](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(
			do.MustInvoke[shortener.Registry](i),
			codes,
			opts.ShortBaseURL(),
			sink,
			do.MustInvoke[shortener.Clock](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Resolver, error) {
		registry, err := do.Invoke[shortener.Registry](i)
		if err != nil {
			return nil, err
		}

		sink, err := do.Invoke[shortener.EventSink](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewResolver(registry, sink, do.MustInvoke[shortener.Clock](i)), nil
	})
}

// ConsumerGroupPackage provides the recorder consumer group. It reads the
// in-process channel in channel mode and the Redis stream otherwise.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var subscriber message.Subscriber

		switch opts.Events {
		case EventsChannel:
			subscriber = do.MustInvoke[*gochannel.GoChannel](i)
		case EventsRedis:
			sub, err := messaging.NewRedisSubscriber(do.MustInvoke[*RedisClient](i).Client, ConsumerGroupName, logger)
			if err != nil {
				return nil, err
			}

			subscriber = sub
		default:
			return nil, fmt.Errorf("events transport %q has no subscriber", opts.Events)
		}

		recorder := events.NewRecorder(logger.Named("recorder"))

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, events.TopicEvents, recorder.Handle, logger))

		return group, nil
	})
}

// HTTPPackage provides the router and the huma API. Invoking huma.API
// registers every route.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Handle("/metrics", promhttp.HandlerFor(do.MustInvoke[*prometheus.Registry](i), promhttp.HandlerOpts{}))

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		service, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		resolver, err := do.Invoke[*shortener.Resolver](i)
		if err != nil {
			return nil, err
		}

		checkers, err := do.Invoke[map[string]health.Checker](i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api), middleware.AccessLog(logger.Named("http")))

		health.RegisterRoutes(api, health.NewHandler(checkers))
		handlers.RegisterRoutes(api, handlers.NewURLHandler(service, resolver, logger))

		return api, nil
	})
}
