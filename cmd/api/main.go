package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mediblog/mediblog-backend/internal/config"
	"github.com/mediblog/mediblog-backend/internal/handler"
	"github.com/mediblog/mediblog-backend/internal/middleware"
	"github.com/mediblog/mediblog-backend/internal/migration"
	"github.com/mediblog/mediblog-backend/internal/repository"
	"github.com/mediblog/mediblog-backend/internal/routes"
	"github.com/mediblog/mediblog-backend/internal/service"
	pkges "github.com/mediblog/mediblog-backend/pkg/elasticsearch"
	"github.com/mediblog/mediblog-backend/pkg/identity"
	"github.com/mediblog/mediblog-backend/pkg/jwt"
	pkglogger "github.com/mediblog/mediblog-backend/pkg/logger"
	pkgredis "github.com/mediblog/mediblog-backend/pkg/redis"
	pkgstorage "github.com/mediblog/mediblog-backend/pkg/storage"
)

// @title           MediBlog Backend API
// @version         1.0
// @description     Medical content publishing backend with a reviewed post workflow
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	logger := pkglogger.GetLogger()

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info().Msg("Connected to MySQL")

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, continuing without it")
		redisClient = nil
	} else {
		logger.Info().Msg("Connected to Redis")
	}

	var esClient *pkges.Client
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, err = pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			logger.Warn().Err(err).Msg("Elasticsearch unavailable, search falls back to SQL")
			esClient = nil
		} else {
			logger.Info().Msg("Connected to Elasticsearch")
		}
	}

	var s3Client *pkgstorage.S3Client
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, err = pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("S3 storage init failed, uploads disabled")
			s3Client = nil
		} else {
			logger.Info().Msg("Connected to S3 storage")
		}
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)
	identityClient := identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.APIKey, time.Duration(cfg.Identity.Timeout)*time.Second)

	// Repositories
	postRepo := repository.NewPostRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Services
	var denylist service.TokenDenylist
	if redisClient != nil {
		denylist = service.NewTokenDenylist(redisClient)
	}
	roleService := service.NewRoleService(roleRepo)
	searchService := service.NewSearchService(esClient, cfg.Elasticsearch.Index, postRepo)
	postService := service.NewPostService(postRepo, categoryRepo, searchService)
	categoryService := service.NewCategoryService(categoryRepo)
	authService := service.NewAuthService(identityClient, roleService, denylist)
	mediaService := service.NewMediaService(s3Client)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, jwtManager)
	postHandler := handler.NewPostHandler(postService, searchService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	adminHandler := handler.NewAdminHandler(roleService)
	mediaHandler := handler.NewMediaHandler(mediaService)

	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           86400,
	}))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if redisClient != nil && !cfg.IsDevelopment() {
		rlCfg := middleware.DefaultRateLimitConfig()
		if cfg.RateLimit.RequestsPerMinute > 0 {
			rlCfg.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		}
		router.Use(middleware.RateLimit(redisClient, rlCfg))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "mediblog-backend",
			"time":    time.Now().Unix(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var dl middleware.TokenDenylist
	if denylist != nil {
		dl = denylist
	}
	routes.Setup(router, authHandler, postHandler, categoryHandler, adminHandler, mediaHandler, jwtManager, dl, roleService)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("Starting server")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

// initDB opens the MySQL connection through gorm
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	logMode := gormlogger.Warn
	if cfg.IsDevelopment() {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func splitAndTrim(s string, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
