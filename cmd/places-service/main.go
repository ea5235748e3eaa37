package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nitesh/places_service/internal/api"
	"github.com/nitesh/places_service/internal/llm"
	"github.com/nitesh/places_service/internal/maps"
	"github.com/nitesh/places_service/internal/service"
	"github.com/redis/go-redis/v9"
)

func envOrDefault(key, d string) string {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	return v
}

func envIntOrDefault(key string, d int) int {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("warning: invalid %s=%q, using default %d", key, v, d)
		return d
	}
	return n
}

func main() {
	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if mapsKey == "" {
		log.Fatalf("GOOGLE_MAPS_API_KEY environment variable is required")
	}

	port := envOrDefault("PORT", "8080")
	redisAddr := envOrDefault("REDIS_ADDR", "localhost:6379")
	maxLocations := envIntOrDefault("MAX_LOCATIONS_RETURNED", 5)
	searchRadius := envIntOrDefault("MAPS_SEARCH_RADIUS", 50000)
	rateLimitRequests := envIntOrDefault("RATE_LIMIT_REQUESTS", 100)
	rateLimitWindow := envIntOrDefault("RATE_LIMIT_WINDOW", 3600)
	allowedOrigins := strings.Split(
		envOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080,http://127.0.0.1:5500"), ",")

	// redis backs the rate limiter; the limiter fails open if it is down.
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warning: redis ping failed: %v", err)
	}

	// create LLM client (reads OLLAMA_BASE_URL, OLLAMA_MODEL from env)
	llmClient := llm.NewClientFromEnv()
	llmClient.SetLogger(log.Printf)

	mapsClient := maps.NewClient(mapsKey, maxLocations, searchRadius, nil)
	mapsClient.SetLogger(log.Printf)

	svc := service.NewService(llmClient, mapsClient, searchRadius)
	handler := api.NewHandler(svc, api.HealthInfo{
		OllamaURL:         envOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
		MapsConfigured:    mapsKey != "",
		RateLimitRequests: rateLimitRequests,
		RateLimitWindow:   rateLimitWindow,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger())
	router.Use(api.SecurityHeaders())
	router.Use(api.CORS(allowedOrigins))
	router.Use(api.APIKeyAuth())
	router.Use(api.RateLimit(rdb, rateLimitRequests, time.Duration(rateLimitWindow)*time.Second))
	api.RegisterRoutes(router, handler)

	log.Printf("listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
