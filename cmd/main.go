package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partflow/config"
	"partflow/jobs"
	"partflow/routes"
	"partflow/services"
	"partflow/triggers"
	"partflow/utils"
)

func main() {
	utils.InitLogger()

	// Load .env before config.LoadConfig reads the environment.
	loadEnvFile()

	config.LoadConfig()
	cfg := config.AppConfig

	// Initialize MongoDB client
	ctx, cancel := config.CreateContext(10 * time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		utils.LogFatal("Failed to connect to MongoDB", err)
	}

	defer func() {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		if err = mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err = mongoClient.Ping(ctx, nil); err != nil {
		utils.LogFatal("Failed to ping MongoDB", err)
	}

	utils.LogInfo("Connected to MongoDB successfully")

	db := mongoClient.Database(cfg.DatabaseName)
	config.DB = db

	serviceContainer, err := routes.NewServiceContainer(
		db,
		cfg.JWTSecret,
		cfg.JWTExpiration,
		cfg.JWTIssuer,
		cfg.MaxUploadSize,
		routes.B2Config{
			KeyID:          cfg.B2ApplicationKeyID,
			ApplicationKey: cfg.B2ApplicationKey,
			BucketName:     cfg.B2BucketName,
		},
		routes.ParserConfig{
			URL:     cfg.ParserURL,
			Timeout: cfg.ParserTimeout,
		},
	)
	if err != nil {
		utils.LogFatal("Failed to initialize services", err)
	}

	// The trigger engine reacts to membership and assignment writes the same
	// way regardless of which client issued them: the watcher observes the
	// change streams and dispatches.
	watcherCtx, watcherCancel := context.WithCancel(context.Background())
	defer watcherCancel()

	engine := triggers.NewEngine(triggers.NewMongoStore(db))
	triggers.NewWatcher(db, engine).Start(watcherCtx)
	utils.LogInfo("Started change stream watchers for memberships and assignments")

	router := gin.Default()
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api")
	routes.SetupRoutesWithContainer(api, serviceContainer)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	if cfg.RetentionSweepInterval > 0 {
		retentionService := services.NewRetentionService(db, cfg.RetentionGracePeriod)
		jobs.StartRetentionSweep(retentionService, cfg.RetentionSweepInterval)
		log.Printf("Started retention sweep running every %v", cfg.RetentionSweepInterval)
	}

	utils.LogInfo("Starting PartFlow server on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogFatal("Failed to start server", err)
	}
}

// loadEnvFile handles loading .env from the usual run locations.
func loadEnvFile() {
	pwd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not get working directory: %v", err)
		return
	}

	envPaths := []string{
		".env",
		"../.env",
		filepath.Join(pwd, ".env"),
		filepath.Join(filepath.Dir(pwd), ".env"),
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err == nil {
				log.Printf("Loaded environment variables from: %s", envPath)
				return
			}
		}
	}

	log.Println("No .env file found, using system environment variables")
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		allowOrigin := ""
		if len(allowedOrigins) == 0 {
			allowOrigin = "*"
		} else {
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == requestOrigin {
					allowOrigin = allowed
					break
				}
			}
			if allowOrigin == "" && requestOrigin == "" {
				allowOrigin = allowedOrigins[0]
			}
		}

		if allowOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Origin, Cache-Control, X-Requested-With, X-File-Name")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
			c.Writer.Header().Set("Access-Control-Expose-Headers", "X-File-Id")
			c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
