package service

import (
	"context"
	"encoding/json"
	"time"

	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/pkg/logger"
	"rap-for-money-be/internal/repository/specification"
	"rap-for-money-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the in-process bus and recomputes trending scores.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TrendingRecomputeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal trending message", map[string]interface{}{
			"error": err.Error(),
		})
		// Malformed payloads never become valid; ack to stop the retry loop.
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: payload.PostId})
	if err != nil {
		cs.logger.Error("consumer", "Failed to load post for trending recompute", map[string]interface{}{
			"post_id": payload.PostId.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if post == nil {
		// Deleted before we got here.
		msg.Ack()
		return
	}

	tipTotal, err := uow.TipRepository().SumForPost(ctx, post.Id)
	if err != nil {
		cs.logger.Error("consumer", "Failed to sum tips for trending recompute", map[string]interface{}{
			"post_id": post.Id.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	score := TrendingScore(post.LikeCount, post.CommentCount, tipTotal, post.CreatedAt, time.Now())
	if err := uow.PostRepository().UpdateTrendingScore(ctx, post.Id, score); err != nil {
		cs.logger.Error("consumer", "Failed to store trending score", map[string]interface{}{
			"post_id": post.Id.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
