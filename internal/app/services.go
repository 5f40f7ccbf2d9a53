package app

import (
	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"github.com/yungbote/usersync-backend/internal/services"
)

type Services struct {
	Events services.EventPublisher
	Mailer services.NotificationSender
	User   services.UserService
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	var events services.EventPublisher = &services.LogEventPublisher{Log: log}
	if clients.EventBus != nil {
		events = &services.RedisEventPublisher{Bus: clients.EventBus}
	}

	var mailer services.NotificationSender = &services.LogMailer{Log: log}
	if clients.SendGrid != nil {
		mailer = &services.SendGridMailer{
			Client:  clients.SendGrid,
			Subject: cfg.NotifySubject,
			Log:     log,
		}
	}

	user := services.NewUserService(log, reposet.User, clients.Reqres, events, mailer, services.UserServiceOptions{
		SenderAddress:      cfg.NotifyFrom,
		SideEffectTimeout:  cfg.SideEffectTimeout,
		AvatarSingleFlight: cfg.AvatarSingleFlight,
	})

	return Services{
		Events: events,
		Mailer: mailer,
		User:   user,
	}
}
