package main

import (
	"context"
	"log"
	"time"

	"storefront/internal/config"
	"storefront/internal/controllers/http"
	"storefront/internal/infra/cache"
	mmysql "storefront/internal/infra/mysql"
	"storefront/internal/infra/rabbitmq"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.Load()

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1000)
	sqlDB.SetMaxIdleConns(200)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	store := mysqlrepo.NewStore(db)

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.OrderExchange)
		if err != nil {
			log.Fatalf("failed to init publisher: %v", err)
		}
		defer p.Close()
		publisher = p
	} else {
		log.Println("RABBITMQ_URL not set, order events will be dropped")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	c := cache.New(redisClient, cfg.CacheTTL)

	orders := services.NewOrderService(store, publisher, c, services.OrderOptions{
		ShippingFee:    cfg.ShippingFee,
		ShippingMethod: cfg.ShippingMethod,
	})
	carts := services.NewCartService(store)
	addresses := services.NewAddressService(store)
	products := services.NewProductService(store, c)

	if len(cfg.WarmupProductIDs) > 0 {
		go func() {
			time.Sleep(5 * time.Second)
			if err := products.WarmupProductCache(context.Background(), cfg.WarmupProductIDs); err != nil {
				log.Printf("Failed to warm up cache: %v", err)
			} else {
				log.Println("Cache warmed up successfully")
			}
		}()
	}

	handler := http.NewHandler(orders, carts, addresses, products, c)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	log.Printf("Starting storefront service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
