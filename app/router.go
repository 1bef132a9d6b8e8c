package app

import (
	"context"
	"fmt"
	"time"

	"gamedash/api/app/auth"
	"gamedash/api/app/player"
	"gamedash/api/app/root"
	"gamedash/api/aws"
	"gamedash/api/db"
	"gamedash/api/internal"
	"gamedash/api/internal/gamedata"
	"gamedash/api/internal/service"
	"gamedash/api/pkg/cache"
	"gamedash/api/pkg/middleware"
	"gamedash/api/pkg/security"
	"gamedash/api/pkg/validators"

	gincache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDeps builds every dependency the handlers need from the loaded config
func NewDeps(ctx context.Context, clock clockwork.Clock) (*internal.Deps, error) {
	store, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	signer, err := security.NewSessionSigner(viper.GetString("security.session_secret"))
	if err != nil {
		return nil, err
	}

	a := service.NewAuthService(store, newSender(), clock)
	a.PasscodeTTL = viper.GetDuration("auth.passcode_ttl")
	a.SessionTTL = viper.GetDuration("auth.session_ttl")

	registry, err := gamedata.NewRegistry(gamedata.DefaultAdapters(gamedata.Config{
		RiotAPIKey:        viper.GetString("riot.api_key"),
		SteamAPIKey:       viper.GetString("steam.api_key"),
		ClashRoyaleAPIKey: viper.GetString("clash_royale.api_key"),
		Timeout:           viper.GetDuration("upstream.timeout"),
	})...)
	if err != nil {
		return nil, err
	}

	var archive service.Archiver = service.NopArchiver{}
	if viper.GetBool("archive.enabled") {
		s3, err := aws.NewS3(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}
		archive = service.NewS3Archiver(s3, clock)
	}

	cacheStore, err := newCacheStore(ctx)
	if err != nil {
		return nil, err
	}

	return &internal.Deps{
		Store:     store,
		Auth:      a,
		Analytics: service.NewAnalyticsService(store, registry, archive, clock),
		Signer:    signer,
		Cache:     cacheStore,
	}, nil
}

func newSender() service.PasscodeSender {
	var email service.PasscodeSender = service.LogSender{}

	if host := viper.GetString("mail.host"); host != "" {
		email = &service.MailSender{
			Host:     host,
			Port:     viper.GetInt("mail.port"),
			Username: viper.GetString("mail.username"),
			Password: viper.GetString("mail.password"),
			From:     viper.GetString("mail.sender"),
		}
	} else {
		zap.L().Warn("No mail.host set, passcodes will only be logged")
	}

	// TODO: wire an SMS gateway for phone numbers
	return service.RoutedSender{Email: email, Phone: service.LogSender{}}
}

func newCacheStore(ctx context.Context) (persist.CacheStore, error) {
	if viper.GetString("cache.type") != "redis" {
		return persist.NewMemoryStore(viper.GetDuration("cache.ttl")), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis, %w", err)
	}

	return cache.NewRedisStore(client, "gamedash:cache:"), nil
}

func NewRouter(d *internal.Deps) (*gin.Engine, error) {
	if err := validators.RegisterBindings(); err != nil {
		return nil, err
	}

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("user_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	rateLimit := viper.GetFloat64("security.rate_limit")

	session := middleware.NewSessionMiddleware(d.Signer, d.Auth)
	turnstile := middleware.NewTurnstileMiddleware()
	bodyLimit := middleware.BodySizeLimiter(1 << 20)
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             viper.GetInt("security.rate_burst"),
	})

	// GET /metrics			-> Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	m := router.Group("/api", rateLimiter, bodyLimit)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/games		-> Lists supported games and their regions
		m.GET("/games", cacheFor(d.Cache, 5*60), root.Games)
	}

	a := m.Group("/auth")
	{
		// POST /api/auth/request-otp	-> Sends a one time passcode
		a.POST("/request-otp", turnstile, func(c *gin.Context) { auth.RequestOTP(c, d) })

		// POST /api/auth/verify-otp	-> Exchanges a passcode for a session cookie
		a.POST("/verify-otp", func(c *gin.Context) { auth.VerifyOTP(c, d) })

		// POST /api/auth/complete-registration -> Stores optional profile fields
		a.POST("/complete-registration", session, func(c *gin.Context) { auth.CompleteRegistration(c, d) })

		// POST /api/auth/logout	-> Deletes the current session
		a.POST("/logout", session, func(c *gin.Context) { auth.Logout(c, d) })

		// GET /api/auth/me		-> Returns the signed in user
		a.GET("/me", session, auth.Me)
	}

	p := m.Group("/player", session)
	{
		// GET /api/player/:gameId/:playerId		-> Returns a player's analytics
		p.GET("/:gameId/:playerId", func(c *gin.Context) { player.PlayerFetch(c, d) })

		// POST /api/player/:gameId/:playerId/refresh	-> Fetches a stored player again
		p.POST("/:gameId/:playerId/refresh", func(c *gin.Context) { player.PlayerRefresh(c, d) })
	}

	return router, nil
}

func cacheFor(store persist.CacheStore, sec int) gin.HandlerFunc {
	return gincache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
