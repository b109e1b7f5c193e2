package main

import (
	"context"

	imagehandler "coursework/internal/images/handler"
	lessonhandler "coursework/internal/lessons/handler"
	lessonrepository "coursework/internal/lessons/repository"
	lessonservice "coursework/internal/lessons/service"
	lessonvalidator "coursework/internal/lessons/validator"
	"coursework/internal/orders/events"
	orderhandler "coursework/internal/orders/handler"
	orderrepository "coursework/internal/orders/repository"
	orderservice "coursework/internal/orders/service"
	ordervalidator "coursework/internal/orders/validator"
	searchhandler "coursework/internal/search/handler"
	searchrepository "coursework/internal/search/repository"
	searchservice "coursework/internal/search/service"
	statushandler "coursework/internal/status/handler"
	"coursework/pkg/app"
	"coursework/pkg/client"
	"coursework/pkg/config"
	mongodb "coursework/pkg/db/mongo"
	"coursework/pkg/kafka"
	kafka_config "coursework/pkg/kafka/config"
	kafka_middleware "coursework/pkg/kafka/middleware"
	"coursework/pkg/middleware"
	"coursework/pkg/telemetry"
)

const ServiceName = "lessons"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Lessons service")

	application := app.NewApplication()

	shutdownTracing, err := telemetry.Setup(context.Background(), ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		cfg.Log.Fatal("Failed to set up tracing", "error", err)
	}
	application.OnShutdown("tracing", shutdownTracing)

	mongoClient, err := client.NewMongoClient(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	application.OnShutdown("mongo", mongoClient.Disconnect)
	store := mongodb.NewStore(mongoClient.Client, cfg.MongoDatabaseName)

	if cfg.RedisAddr != "" {
		redisClient, err := client.NewRedisClient(cfg.Log, cfg.RedisAddr, cfg.MongoConnTimeout)
		if err != nil {
			cfg.Log.Fatal("Failed to connect to Redis", "error", err)
		}
		application.OnShutdown("redis", func(context.Context) error { return redisClient.Close() })
		application.UseIdempotencyStore(middleware.NewRedisIdempotencyStore(redisClient.Client, cfg.IdempotencyTTL, cfg.Log))
	}

	publisher := initPublisher(cfg, application)

	lessonRepo := lessonrepository.NewMongoLessonRepository(store, cfg)
	lessonService := lessonservice.NewLessonService(lessonRepo, lessonvalidator.NewLessonValidator(), cfg)
	orderService := orderservice.NewOrderService(
		lessonRepo,
		orderrepository.NewMongoOrderRepository(store, cfg),
		ordervalidator.NewOrderValidator(),
		publisher,
		cfg,
	)
	searchService := searchservice.NewSearchService(searchrepository.NewMongoSearchRepository(store, cfg), cfg)
	cfg.Log.Info("Services initialized")

	application.SetApp(cfg,
		statushandler.NewStatusHandler(store, cfg.ReadTimeout, cfg.Log),
		lessonhandler.NewLessonHandler(lessonService, cfg.Log),
		orderhandler.NewOrderHandler(orderService, cfg.Log),
		searchhandler.NewSearchHandler(searchService, cfg.Log),
		imagehandler.NewImageHandler(cfg.ImagesDir, cfg.Log),
	)
	application.Run()
}

func initPublisher(cfg *config.Config, application *app.Application) events.OrderPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka not configured, order events disabled")
		return events.NewNoopOrderPublisher()
	}

	kafkaCfg, err := kafka_config.Load(cfg.KafkaBrokers)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaOrdersTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware())
	application.OnShutdown("kafka", func(context.Context) error { return producer.Close() })

	cfg.Log.Info("Order events enabled", "topic", producer.Topic(), "brokers", cfg.KafkaBrokers)
	return events.NewKafkaOrderPublisher(producer)
}
