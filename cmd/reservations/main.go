package main

import (
	"seatwise/internal/reservations/handler"
	"seatwise/internal/reservations/notify"
	"seatwise/internal/reservations/repository"
	"seatwise/internal/reservations/service"
	"seatwise/internal/reservations/validator"
	settingshandler "seatwise/internal/settings/handler"
	settingsrepository "seatwise/internal/settings/repository"
	settingsservice "seatwise/internal/settings/service"
	settingsvalidator "seatwise/internal/settings/validator"
	"seatwise/pkg/app"
	"seatwise/pkg/config"
	kafkaconfig "seatwise/pkg/kafka/config"
	"seatwise/pkg/refcode"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	settingService := initSettingService(cfg)
	bookingService, emitter := initBookingService(cfg, settingService)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg.StaffAPIKey, cfg.Log),
		settingshandler.NewSettingHandler(settingService, cfg.StaffAPIKey, cfg.Log),
	)
	serverApp.OnShutdown(emitter.Close)
	serverApp.Run()
}

func initSettingService(cfg *config.Config) settingsservice.SettingService {
	settingValidator, err := settingsvalidator.NewSettingValidator(cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize settings validator", "error", err)
	}
	settingRepo := settingsrepository.NewMongoSettingRepository(cfg)
	settingService := settingsservice.NewSettingService(settingRepo, settingValidator, cfg)

	cfg.Log.Info("Settings service initialized", "database", cfg.MongoDatabaseName)
	return settingService
}

func initBookingService(cfg *config.Config, settings settingsservice.SettingService) (service.BookingService, *notify.Emitter) {
	sealer, err := refcode.NewSealer(cfg.ReferenceCodeKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize reference code sealer", "error", err)
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	emitter, err := notify.NewEmitter(cfg, kafkaCfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event emitter", "error", err)
	}

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		settings,
		bookingValidator,
		sealer,
		emitter,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, emitter
}
