package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"fooddelivery/cmd"
	httpadapter "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/amqp"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustConnectDB(configs)
	notifier := mustConnectBroker(configs)
	defer notifier.Close()

	app := cmd.NewCompositionRoot(configs, gormDB, notifier)

	jobManager := jobs.NewJobManager(
		app.CreateRefreshBroadcastsCommandHandler(),
		configs.BroadcastRefreshSchedule,
		app.Logger(),
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:                 goDotEnvVariable("HTTP_PORT"),
		DBHost:                   goDotEnvVariable("DB_HOST"),
		DBPort:                   goDotEnvVariable("DB_PORT"),
		DBUser:                   goDotEnvVariable("DB_USER"),
		DBPassword:               goDotEnvVariable("DB_PASSWORD"),
		DBName:                   goDotEnvVariable("DB_NAME"),
		DBSslMode:                goDotEnvVariable("DB_SSLMODE"),
		AmqpURL:                  goDotEnvVariable("AMQP_URL"),
		ShopServiceURL:           goDotEnvVariable("SHOP_SERVICE_URL"),
		AuthServiceURL:           goDotEnvVariable("AUTH_SERVICE_URL"),
		NotifyServiceURL:         goDotEnvVariable("NOTIFY_SERVICE_URL"),
		PaymentSecret:            goDotEnvVariable("PAYMENT_SECRET"),
		BroadcastRadiusMeters:    intEnvVariable("BROADCAST_RADIUS_METERS", commands.DefaultBroadcastRadius),
		FallbackRadiusMeters:     intEnvVariable("FALLBACK_RADIUS_METERS", commands.FallbackBroadcastRadius),
		BroadcastStaleAfter:      durationEnvVariable("BROADCAST_STALE_AFTER", commands.DefaultBroadcastStaleAfter),
		BroadcastRefreshSchedule: os.Getenv("BROADCAST_REFRESH_SCHEDULE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func intEnvVariable(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return value
}

func durationEnvVariable(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = postgres.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func mustConnectBroker(configs cmd.Config) *amqp.Notifier {
	notifier, err := amqp.Dial(configs.AmqpURL)
	if err != nil {
		log.Fatalf("Failed to connect to message broker: %v", err)
	}
	return notifier
}

func startWebServer(app cmd.CompositionRoot, port string) {
	server := httpadapter.NewServer(
		app.CreatePlaceOrderCommandHandler(),
		app.CreateUpdateOrderStatusCommandHandler(),
		app.CreateAcceptAssignmentCommandHandler(),
		app.CreateRequestDeliveryCodeCommandHandler(),
		app.CreateConfirmDeliveryCommandHandler(),
		app.CreateRateOrderCommandHandler(),
		app.CreateGetUserOrdersQueryHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetOwnerOrdersQueryHandler(),
		app.CreateGetCourierAssignmentsQueryHandler(),
		app.CreateGetCurrentAssignmentQueryHandler(),
	)

	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
