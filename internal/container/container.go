package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ajisatria/go-blog-api/config"
	"github.com/ajisatria/go-blog-api/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router modules auto-wire themselves from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	esClient    *elasticsearch.Client
	jwtManager  *helpers.JWTManager
)

func SetConfig(c *config.Config) { cfg = c }

func GetConfig() *config.Config { return cfg }

func SetLogger(l *logrus.Logger) { logger = l }

func GetLogger() *logrus.Logger { return logger }

func SetPGPool(p *pgxpool.Pool) { pgPool = p }

func GetPGPool() *pgxpool.Pool { return pgPool }

func SetRedis(r *redis.Client) { redisClient = r }

func GetRedis() *redis.Client { return redisClient }

func SetES(c *elasticsearch.Client) { esClient = c }

func GetES() *elasticsearch.Client { return esClient }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }

func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}
