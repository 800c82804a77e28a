package main

import (
	"context"

	autobookinghandler "seatrota/internal/autobooking/handler"
	autobookingservice "seatrota/internal/autobooking/service"
	"seatrota/internal/bookings/events"
	"seatrota/internal/bookings/handler"
	"seatrota/internal/bookings/repository"
	"seatrota/internal/bookings/service"
	"seatrota/internal/bookings/validator"
	"seatrota/pkg/app"
	"seatrota/pkg/clock"
	"seatrota/pkg/config"
	"seatrota/pkg/kafka"
	kafka_config "seatrota/pkg/kafka/config"
	kafka_middleware "seatrota/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Connect()

	cfg.Log.Info("Starting Bookings service", "storage", cfg.StorageDriver, "timezone", cfg.Timezone)

	clk := clock.Real()
	repos := repository.New(cfg)
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	publisher, closePublisher := initPublisher(cfg)

	allocator := service.NewAllocatorFromConfig(repos, bookingValidator, clk, cfg)
	bookingService := service.NewBookingService(repos, allocator, publisher, clk, cfg)

	orchestrator := autobookingservice.NewOrchestrator(repos, allocator, publisher, cfg)
	scheduler, err := autobookingservice.NewScheduler(orchestrator, clk, cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to create auto-booking scheduler", "error", err)
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client, cfg.Log),
		bookingService.GetUser,
		handler.NewBookingHandler(bookingService, bookingValidator, cfg.Log),
		autobookinghandler.NewAdminHandler(scheduler, bookingValidator, cfg.Log),
	)
	serverApp.AddWorker(scheduler)
	serverApp.OnShutdown(closePublisher)
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.Run()
}

// initPublisher returns a Kafka-backed publisher when KAFKA_ENABLED is set,
// otherwise a no-op one.
func initPublisher(cfg *config.Config) (events.Publisher, func()) {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events are not published")
		return events.NewNoopPublisher(), func() {}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingTopic, cfg.KafkaDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	// Broker latency must never reach the booking path.
	publisher := events.NewAsyncPublisher(events.NewKafkaPublisher(producer, ServiceName, cfg.Log), events.DefaultAsyncBuffer, cfg.Log)
	return publisher, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = publisher.Close(ctx)
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}
