package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/testforus12-cyber/backend-2-sub000/config"
	httphandler "github.com/testforus12-cyber/backend-2-sub000/handler/http"
	"github.com/testforus12-cyber/backend-2-sub000/internal/auction"
	"github.com/testforus12-cyber/backend-2-sub000/internal/distance"
	"github.com/testforus12-cyber/backend-2-sub000/internal/kafka"
	"github.com/testforus12-cyber/backend-2-sub000/internal/quote"
	"github.com/testforus12-cyber/backend-2-sub000/internal/rabbitmq"
	"github.com/testforus12-cyber/backend-2-sub000/internal/zone"
	"github.com/testforus12-cyber/backend-2-sub000/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	cfg := config.LoadConfig()

	pg, err := store.NewPostgresStore(cfg.GetDBURL())
	if err != nil {
		log.Fatalf("failed to create store: %v", err)
	}
	defer pg.Close()

	// Static reference tables: loaded once, injected everywhere, never
	// re-read per request.
	ctx := context.Background()
	centroids, err := pg.LoadCentroids(ctx)
	if err != nil {
		log.Fatalf("failed to load pincode centroids: %v", err)
	}
	globalZones, err := pg.LoadGlobalZones(ctx)
	if err != nil {
		log.Fatalf("failed to load global zone table: %v", err)
	}
	log.Printf("✅ loaded %d centroids, %d global zone entries", len(centroids), len(globalZones))

	// Kafka producer is optional: without a broker we just skip events.
	var producer kafka.Publisher
	if cfg.KAFKA_BROKER != "" {
		p := kafka.NewProducer(cfg.KAFKA_BROKER, cfg.KAFKA_TOPIC)
		defer p.Close()
		producer = p
		log.Printf("✅ kafka producer connected to %s topic=%s", cfg.KAFKA_BROKER, cfg.KAFKA_TOPIC)
	}

	// Same for RabbitMQ bid notifications.
	var notifier auction.Notifier
	if cfg.RABBITMQ_HOST != "" {
		client, err := rabbitmq.NewClient(cfg.GetRabbitMQURL())
		if err != nil {
			log.Fatalf("failed to connect rabbitmq: %v", err)
		}
		defer client.Close()
		n, err := rabbitmq.NewBidNotifier(client, "auction.notifications")
		if err != nil {
			log.Fatalf("failed to declare notification queue: %v", err)
		}
		notifier = n
		log.Println("✅ rabbitmq bid notifier ready")
	}

	zoneResolver := zone.NewResolver(pg, globalZones)
	distanceResolver := distance.NewResolver(cfg.DISTANCE_API_URL, cfg.DISTANCE_API_KEY, centroids)

	quoteSvc := quote.NewService(pg, pg, pg, zoneResolver, distanceResolver, producer)
	auctionSvc := auction.NewService(pg, pg, quoteSvc, producer, notifier)

	e := echo.New()
	e.Use(echoMiddleware.Recover())

	httphandler.NewQuoteHandler(quoteSvc).Register(e)
	httphandler.NewAuctionHandler(auctionSvc).Register(e)
	httphandler.NewHealthHandler(pg).Register(e)

	log.Printf("listening on :%s", cfg.PORT)
	if err := e.Start(":" + cfg.PORT); err != nil {
		log.Fatal(err)
	}
}
