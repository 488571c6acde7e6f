package wire

import (
	"Chillz/internal/api"
	"Chillz/internal/api/config"
	"Chillz/internal/api/handler"
	"Chillz/internal/job"
	"Chillz/internal/pkg/cron"
	"Chillz/internal/pkg/es"
	"Chillz/internal/pkg/kafka"
	"Chillz/internal/pkg/live"
	"Chillz/internal/pkg/mongo"
	"Chillz/internal/pkg/redis"
	"Chillz/internal/repository"
	"Chillz/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodrv.Database, cfg *config.Config) (*ApplicationContainer, error) {
	profileRepo := repository.NewProfileRepo(db)
	chatRepo := mongo.NewChatRepo(mongoDB)
	messageRepo := mongo.NewMessageRepo(mongoDB)
	vibeCheckRepo := mongo.NewVibeCheckRepo(mongoDB)
	presenceRepo := mongo.NewPresenceRepo(mongoDB)
	profileESRepo := es.NewProfileRepo()

	bus := live.NewRedisBus(redis.GetRdbClient())

	profileService := service.NewProfileService(profileRepo, profileESRepo)
	vibeCheckService := service.NewVibeCheckService(vibeCheckRepo, chatRepo, messageRepo, profileRepo, bus)
	chatService := service.NewChatService(chatRepo, messageRepo, profileRepo, bus)
	presenceService := service.NewPresenceService(presenceRepo, bus, time.Duration(cfg.Presence.TTLSeconds)*time.Second)

	handlers := &api.HandlersGroup{
		ProfileHandler:   handler.NewProfileHandler(profileService),
		VibeCheckHandler: handler.NewVibeCheckHandler(vibeCheckService),
		ChatHandler:      handler.NewChatHandler(chatService),
		PresenceHandler:  handler.NewPresenceHandler(presenceService),
		WsHandler:        handler.NewWsHandler(bus),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, profileESRepo)
	if err != nil {
		return nil, err
	}

	presenceSweepJob := job.NewPresenceSweepJob(presenceService)
	cronMgr := cron.NewCronManager(presenceSweepJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
