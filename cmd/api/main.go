package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "healthmate/cmd/api/router/v1"
	"healthmate/internal/config"
	cacheadapter "healthmate/internal/infrastructure/cache/adapter"
	"healthmate/internal/infrastructure/database"
	queueadapter "healthmate/internal/infrastructure/queue/adapter"
	"healthmate/internal/infrastructure/realtime"
	chatusecase "healthmate/internal/pkg/chat/application/usecase"
	chatadapter "healthmate/internal/pkg/chat/persistence/repository/adapter"
	chathttp "healthmate/internal/pkg/chat/presentation/http"
	diradapter "healthmate/internal/pkg/directory/adapter"
	notiftask "healthmate/internal/pkg/notification/application/task"
	notifusecase "healthmate/internal/pkg/notification/application/usecase"
	notifadapter "healthmate/internal/pkg/notification/persistence/repository/adapter"
	notifhttp "healthmate/internal/pkg/notification/presentation/http"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	log := logger.WithField("service", "healthmate-api")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("unable to load configuration")
	}
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DBURL)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("unable to connect to database")
	}
	defer pool.Close()

	cache, err := cacheadapter.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("unable to connect to redis")
	}
	defer cache.Close()

	queueClient, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("unable to create queue client")
	}
	defer queueClient.Close()

	queueServer, err := queueadapter.NewAsynqServer(cfg.RedisURL, cfg.QueueConcurrency, logger)
	if err != nil {
		log.WithError(err).Fatal("unable to create queue server")
	}

	gateway := realtime.NewGateway(logger)

	// Stores and collaborators.
	conversations := chatadapter.NewPgConversationRepository(pool)
	messages := chatadapter.NewPgMessageRepository(pool)
	notifications := notifadapter.NewPgNotificationRepository(pool)
	directory := diradapter.NewPgDirectory(pool)

	// Notification side.
	createNotification := notifusecase.NewCreateNotificationUseCase(notifications, cache, gateway, log)
	chatTrigger := notifusecase.NewChatTriggerUseCase(createNotification, log)
	notifDeps := notifhttp.Deps{
		List:              notifusecase.NewListNotificationsUseCase(notifications),
		UnreadCount:       notifusecase.NewUnreadCountUseCase(notifications, cache, log),
		MarkRead:          notifusecase.NewMarkReadUseCase(notifications, cache, log),
		MarkAllRead:       notifusecase.NewMarkAllReadUseCase(notifications, cache, log),
		Delete:            notifusecase.NewDeleteNotificationUseCase(notifications, cache, log),
		PredictionTrigger: notifusecase.NewPredictionTriggerUseCase(createNotification, queueClient, log),
		ArticleTrigger:    notifusecase.NewArticleTriggerUseCase(createNotification),
		Log:               log,
	}

	// Chat side.
	chatDeps := chathttp.Deps{
		Send:        chatusecase.NewSendMessageUseCase(conversations, messages, directory, gateway, chatTrigger),
		Inbox:       chatusecase.NewDoctorInboxUseCase(conversations, messages, directory),
		Convos:      chatusecase.NewPatientConversationsUseCase(conversations, messages, directory),
		Messages:    chatusecase.NewGetMessagesUseCase(conversations, messages, directory),
		MarkRead:    chatusecase.NewMarkReadUseCase(conversations, messages),
		MarkSeen:    chatusecase.NewMarkSeenUseCase(conversations, messages, gateway),
		CreateGroup: chatusecase.NewCreateGroupUseCase(conversations, directory, gateway),
		LeaveGroup:  chatusecase.NewLeaveGroupUseCase(conversations, directory, gateway),
		JoinConvo:   chatusecase.NewJoinConversationUseCase(conversations),
		Gateway:     gateway,
		Log:         log,
	}

	// The queue server runs inside the API process so the reminder handler
	// can push through the in-process gateway.
	notiftask.Register(queueServer, notifications, gateway, log)
	go func() {
		if err := queueServer.Run(ctx); err != nil {
			log.WithError(err).Error("queue server stopped")
			stop()
		}
	}()

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, chatDeps, notifDeps)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown incomplete")
	}
	if err := queueServer.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("queue shutdown incomplete")
	}
}
