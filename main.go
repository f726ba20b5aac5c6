package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/jobsphere/jobsphere/internal/analysis"
	"github.com/jobsphere/jobsphere/internal/api"
	"github.com/jobsphere/jobsphere/internal/ats"
	"github.com/jobsphere/jobsphere/internal/auth"
	"github.com/jobsphere/jobsphere/internal/database"
	"github.com/jobsphere/jobsphere/internal/events"
	"github.com/jobsphere/jobsphere/internal/jobs"
	"github.com/jobsphere/jobsphere/internal/llm"
	"github.com/jobsphere/jobsphere/internal/logger"
)

func main() {
	_ = godotenv.Load()

	googleApiKey := os.Getenv("GOOGLE_API_KEY")
	if googleApiKey == "" {
		log.Fatal("empty GOOGLE_API_KEY in env")
	}
	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("empty DB_URL in environment")
	}
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("empty SESSION_SECRET in environment")
	}

	zlog, err := logger.New(os.Getenv("LOG_JSON") == "true", os.Getenv("LOG_DEBUG") == "true")
	if err != nil {
		log.Fatal("error building logger. err: ", err)
	}
	defer zlog.Sync()

	db, err := sql.Open("postgres", dbUrl)
	if err != nil {
		log.Fatal("error opening db. err: ", err)
	}
	dbqueries := database.New(db)

	ctx := context.Background()

	generator, err := llm.NewGeminiGenerator(ctx, googleApiKey, os.Getenv("GEMINI_MODEL"), zlog)
	if err != nil {
		log.Fatalf("failed to create generator: %v", err)
	}

	table := loadEmbeddingTable(ctx, zlog)
	scorer := ats.NewScorer(table)

	var providers []jobs.Provider
	if key := os.Getenv("JOOBLE_API_KEY"); key != "" {
		providers = append(providers, jobs.NewJoobleClient(zlog, key))
	}
	if key := os.Getenv("SERPAPI_API_KEY"); key != "" {
		providers = append(providers, jobs.NewSerpAPIClient(zlog, key))
	}
	aggregator := jobs.NewAggregator(zlog, providers...)

	var publisher *events.Publisher
	if rabbitmqUrl := os.Getenv("RABBITMQ_URL"); rabbitmqUrl != "" {
		publisher, err = events.NewPublisher(rabbitmqUrl, zlog)
		if err != nil {
			log.Fatalf("error connecting to RabbitMQ. err:  %v", err)
		}
		defer publisher.Close()
	}

	handlers := &api.Handlers{
		Analyzer: analysis.NewAnalyzer(generator, zlog),
		Scorer:   scorer,
		Jobs:     aggregator,
		Users:    dbqueries,
		Tokens:   auth.NewTokenIssuer(sessionSecret),
		Events:   publisher,
		Logger:   zlog,
	}

	app := fiber.New()
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowCredentials: true,
	}))

	api.Register(app, handlers)

	if _, err := os.Stat("./frontend/build"); err == nil {
		app.Static("/", "./frontend/build")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	zlog.Info("starting server",
		zap.String("port", port),
		zap.Bool("embedding_mode", scorer.EmbeddingMode()),
		zap.Int("job_providers", len(providers)),
	)
	log.Fatal(app.Listen(":" + port))
}

// loadEmbeddingTable tries a local GloVe file first, then the R2 bucket.
// Returning nil puts the scorer in keyword-overlap mode.
func loadEmbeddingTable(ctx context.Context, zlog *zap.Logger) *ats.EmbeddingTable {
	if path := os.Getenv("EMBEDDINGS_PATH"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal("error opening embeddings file. err: ", err)
		}
		defer f.Close()

		table, err := ats.LoadEmbeddings(f)
		if err != nil {
			log.Fatal("error parsing embeddings file. err: ", err)
		}
		zlog.Info("loaded embeddings from disk", zap.String("path", path))
		return table
	}

	r2AccountId := os.Getenv("R2_ACCOUNT_ID")
	r2Bucket := os.Getenv("R2_BUCKET")
	r2AccessKey := os.Getenv("R2_ACCESS_KEY")
	r2SecretKey := os.Getenv("R2_SECRET_KEY")
	objectKey := os.Getenv("EMBEDDINGS_OBJECT_KEY")
	if r2AccountId == "" || r2Bucket == "" || r2AccessKey == "" || r2SecretKey == "" || objectKey == "" {
		zlog.Warn("no embeddings configured, falling back to keyword overlap scoring")
		return nil
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2AccessKey, r2SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("error creating aws config", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = r2Endpoint(r2AccountId)
	})

	table, err := ats.LoadEmbeddingsFromR2(ctx, client, r2Bucket, objectKey)
	if err != nil {
		log.Fatal("error loading embeddings from r2. err: ", err)
	}
	zlog.Info("loaded embeddings from r2", zap.String("bucket", r2Bucket), zap.String("key", objectKey))
	return table
}

func r2Endpoint(accountID string) *string {
	endpoint := "https://" + accountID + ".r2.cloudflarestorage.com"
	return &endpoint
}
