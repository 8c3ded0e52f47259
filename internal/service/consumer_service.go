package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/dto"
	"careercoach-be/internal/model"
	"careercoach-be/internal/pkg/logger"
	"careercoach-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func modeLabel(mode string) string {
	switch mode {
	case constant.SessionModeDeepInterview:
		return "프로젝트 심층 인터뷰"
	case constant.SessionModeMockInterview:
		return "모의면접"
	case constant.SessionModeJobSimulation:
		return "직무 시뮬레이션"
	}
	return mode
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.SessionCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer_service", "failed to unmarshal session completed message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack malformed messages so they are not redelivered forever.
		msg.Ack()
		return
	}

	notification := model.Notification{
		ID:       uuid.New(),
		UserID:   payload.UserId,
		TypeCode: model.NotificationSessionCompleted,
		Title:    fmt.Sprintf("%s 완료", modeLabel(payload.Mode)),
		Message:  "결과 리포트가 준비되었습니다.",
		Metadata: map[string]interface{}{
			"session_id": payload.SessionId.String(),
			"project_id": payload.ProjectId.String(),
			"mode":       payload.Mode,
		},
		CreatedAt: time.Now().UTC(),
	}
	cs.hub.Send(payload.UserId, notification)

	cs.logger.Info("consumer_service", "session completed notification delivered", map[string]interface{}{
		"session_id": payload.SessionId.String(),
		"user_id":    payload.UserId.String(),
		"mode":       payload.Mode,
	})
	msg.Ack()
}
