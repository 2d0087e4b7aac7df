package service

import (
	"context"
	"encoding/json"
	"time"

	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/pkg/logger"
	"rap-for-money-be/internal/pkg/serverutils"
	"rap-for-money-be/internal/repository/specification"
	"rap-for-money-be/internal/repository/unitofwork"
	"rap-for-money-be/pkg/events"
	pktNats "rap-for-money-be/pkg/nats"

	"github.com/google/uuid"
)

type ICommentService interface {
	Create(ctx context.Context, authorId, postId uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	List(ctx context.Context, postId uuid.UUID, page, limit int) ([]*dto.CommentResponse, error)
	Delete(ctx context.Context, callerId, commentId uuid.UUID) error
}

type commentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewCommentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ICommentService {
	return &commentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *commentService) Create(ctx context.Context, authorId, postId uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: postId})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, serverutils.NewNotFoundError("Post not found")
	}

	comment := &entity.Comment{
		Id:        uuid.New(),
		PostId:    postId,
		AuthorId:  authorId,
		Text:      req.Content,
		CreatedAt: time.Now(),
	}
	if err := uow.CommentRepository().Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := uow.PostRepository().AdjustCommentCount(ctx, postId, 1); err != nil {
		return nil, err
	}

	if s.publisherService != nil {
		// Comments move the trending needle too.
		if payload, err := json.Marshal(dto.TrendingRecomputeMessage{PostId: postId}); err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				s.logger.Warn("comment", "Failed to queue trending recompute", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	if s.eventPublisher != nil && post.AuthorId != authorId {
		evt := events.New(events.TypePostCommented, map[string]interface{}{
			"post_id":      postId.String(),
			"author_id":    post.AuthorId.String(),
			"commenter_id": authorId.String(),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("comment", "Failed to publish comment event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return s.toResponse(ctx, uow, comment)
}

func (s *commentService) List(ctx context.Context, postId uuid.UUID, page, limit int) ([]*dto.CommentResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	comments, err := uow.CommentRepository().FindAll(ctx,
		specification.CommentsForPost{PostID: postId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	authorIds := make([]uuid.UUID, 0, len(comments))
	seen := make(map[uuid.UUID]bool)
	for _, comment := range comments {
		if !seen[comment.AuthorId] {
			seen[comment.AuthorId] = true
			authorIds = append(authorIds, comment.AuthorId)
		}
	}

	authorById := make(map[uuid.UUID]*entity.User)
	if len(authorIds) > 0 {
		authors, err := uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: authorIds})
		if err != nil {
			return nil, err
		}
		for _, author := range authors {
			authorById[author.Id] = author
		}
	}

	result := make([]*dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		res := &dto.CommentResponse{
			Id:        comment.Id,
			PostId:    comment.PostId,
			Content:   comment.Text,
			CreatedAt: comment.CreatedAt,
		}
		if author, ok := authorById[comment.AuthorId]; ok {
			res.Author = dto.AuthorSummary{
				Id:          author.Id,
				Username:    author.Username,
				DisplayName: author.DisplayName,
				AvatarURL:   author.AvatarURL,
			}
		}
		result = append(result, res)
	}
	return result, nil
}

func (s *commentService) Delete(ctx context.Context, callerId, commentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	comment, err := uow.CommentRepository().FindOne(ctx, specification.ByID{ID: commentId})
	if err != nil {
		return err
	}
	if comment == nil {
		return serverutils.NewNotFoundError("Comment not found")
	}
	if comment.AuthorId != callerId {
		return serverutils.NewAuthorizationError("Only the author can delete a comment")
	}

	if err := uow.CommentRepository().Delete(ctx, commentId); err != nil {
		return err
	}
	return uow.PostRepository().AdjustCommentCount(ctx, comment.PostId, -1)
}

func (s *commentService) toResponse(ctx context.Context, uow unitofwork.UnitOfWork, comment *entity.Comment) (*dto.CommentResponse, error) {
	author, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: comment.AuthorId})
	if err != nil {
		return nil, err
	}

	res := &dto.CommentResponse{
		Id:        comment.Id,
		PostId:    comment.PostId,
		Content:   comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	if author != nil {
		res.Author = dto.AuthorSummary{
			Id:          author.Id,
			Username:    author.Username,
			DisplayName: author.DisplayName,
			AvatarURL:   author.AvatarURL,
		}
	}
	return res, nil
}
