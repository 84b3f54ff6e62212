package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kanjilab/jhs-scheduler/internal/api"
	"github.com/kanjilab/jhs-scheduler/internal/cache"
	internalconfig "github.com/kanjilab/jhs-scheduler/internal/config"
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/engine"
	"github.com/kanjilab/jhs-scheduler/internal/jobs"
	"github.com/kanjilab/jhs-scheduler/internal/metrics"
	"github.com/kanjilab/jhs-scheduler/internal/report"
	pkgcache "github.com/kanjilab/jhs-scheduler/pkg/cache"
	"github.com/kanjilab/jhs-scheduler/pkg/config"
	pkgjobs "github.com/kanjilab/jhs-scheduler/pkg/jobs"
	"github.com/kanjilab/jhs-scheduler/pkg/logger"
	reqidmiddleware "github.com/kanjilab/jhs-scheduler/pkg/middleware/requestid"
)

// @title Junior-High Timetable Scheduler API
// @version 0.1.0
// @description Constraint-satisfaction weekly class timetable generator.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engineCfg, err := internalconfig.BuildEngineConfig(cfg, defaultSchoolRoster())
	if err != nil {
		logr.Sugar().Fatalw("failed to assemble engine config", "error", err)
	}
	eng := engine.New(engineCfg, logr)

	metricsSvc := metrics.NewSchedulerMetrics()

	var resultCache *cache.ResultCache
	if redisClient, err := pkgcache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("result cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		resultCache = cache.New(redisClient, cfg.Scheduler.ProposalTTL)
	}
	if resultCache == nil {
		logr.Sugar().Fatal("result cache is required: configure REDIS_HOST/REDIS_PORT")
	}

	workers := 2
	queueCfg := pkgjobs.QueueConfig{
		Workers:    workers,
		BufferSize: workers * 4,
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
		Logger:     logr,
	}
	generationQueue := jobs.NewGenerationQueue(eng, resultCache, queueCfg, logr)
	queueCtx, cancelQueue := context.WithCancel(context.Background())
	generationQueue.Start(queueCtx)
	defer func() {
		cancelQueue()
		generationQueue.Stop()
	}()

	csvReport := report.NewCSVReport(engineCfg.Classes)
	scheduleHandler := api.NewScheduleHandler(generationQueue, csvReport)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	apiGroup := r.Group(cfg.APIPrefix)
	scheduleHandler.RegisterRoutes(apiGroup)

	addr := ":8080"
	if cfg.Port != 0 {
		addr = ":" + strconv.Itoa(cfg.Port)
	}
	logr.Sugar().Infow("starting server", "addr", addr)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server stopped", "error", err)
	}
}

// defaultSchoolRoster is the Phase-0 bootstrap roster: a single regular
// class with the five major academic subjects. Real deployments replace
// this with the school's own roster, loaded however the operator prefers --
// roster/timetable parsing is intentionally left to the caller.
func defaultSchoolRoster() internalconfig.SchoolRoster {
	class := domain.ClassRef{Grade: 1, Number: 1}
	hours := domain.StandardHoursTable{}
	for _, subject := range domain.AcademicSubjects {
		hours.Set(class, subject, 4)
	}

	return internalconfig.SchoolRoster{
		Classes:       []domain.ClassRef{class},
		GymSubject:    domain.CodePE,
		StandardHours: hours,
	}
}
