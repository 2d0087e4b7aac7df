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
	"rap-for-money-be/pkg/utils"

	"github.com/google/uuid"
)

type IPostService interface {
	Create(ctx context.Context, authorId uuid.UUID, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	Get(ctx context.Context, callerId, postId uuid.UUID) (*dto.PostResponse, error)
	Delete(ctx context.Context, callerId, postId uuid.UUID) error
	Feed(ctx context.Context, userId uuid.UUID, req *dto.FeedRequest) ([]*dto.PostResponse, error)
	Trending(ctx context.Context, callerId uuid.UUID, req *dto.FeedRequest) ([]*dto.PostResponse, error)
	ByHashtag(ctx context.Context, callerId uuid.UUID, hashtag string, req *dto.FeedRequest) ([]*dto.PostResponse, error)
	ByAuthor(ctx context.Context, callerId uuid.UUID, username string, req *dto.FeedRequest) ([]*dto.PostResponse, error)
	TrendingHashtags(ctx context.Context, limit int) ([]*dto.HashtagResponse, error)
	Like(ctx context.Context, userId, postId uuid.UUID) (*dto.LikeResponse, error)
	Unlike(ctx context.Context, userId, postId uuid.UUID) (*dto.LikeResponse, error)
}

type postService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewPostService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IPostService {
	return &postService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func defaultedPage(req *dto.FeedRequest) (page, limit int) {
	page = req.Page
	if page < 1 {
		page = 1
	}
	limit = req.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return page, limit
}

func (s *postService) Create(ctx context.Context, authorId uuid.UUID, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post := &entity.Post{
		Id:        uuid.New(),
		AuthorId:  authorId,
		Caption:   req.Caption,
		MediaType: entity.MediaType(req.MediaType),
		MediaURL:  req.MediaURL,
		Hashtags:  utils.ExtractHashtags(req.Caption),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := uow.PostRepository().Create(ctx, post); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, uow, post, authorId)
}

func (s *postService) Get(ctx context.Context, callerId, postId uuid.UUID) (*dto.PostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: postId})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, serverutils.NewNotFoundError("Post not found")
	}
	return s.toResponse(ctx, uow, post, callerId)
}

func (s *postService) Delete(ctx context.Context, callerId, postId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: postId})
	if err != nil {
		return err
	}
	if post == nil {
		return serverutils.NewNotFoundError("Post not found")
	}
	if post.AuthorId != callerId {
		return serverutils.NewAuthorizationError("Only the author can delete a post")
	}
	return uow.PostRepository().Delete(ctx, postId)
}

func (s *postService) Feed(ctx context.Context, userId uuid.UUID, req *dto.FeedRequest) ([]*dto.PostResponse, error) {
	page, limit := defaultedPage(req)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	followingIds, err := uow.FollowRepository().FollowingIds(ctx, userId)
	if err != nil {
		return nil, err
	}
	// Own posts always show up in the feed.
	authorIds := append(followingIds, userId)

	posts, err := uow.PostRepository().FindAll(ctx,
		specification.AuthoredByAny{AuthorIDs: authorIds},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, uow, posts, userId)
}

func (s *postService) Trending(ctx context.Context, callerId uuid.UUID, req *dto.FeedRequest) ([]*dto.PostResponse, error) {
	page, limit := defaultedPage(req)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	posts, err := uow.PostRepository().FindAll(ctx,
		specification.OrderBy{Field: "trending_score", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, uow, posts, callerId)
}

func (s *postService) ByHashtag(ctx context.Context, callerId uuid.UUID, hashtag string, req *dto.FeedRequest) ([]*dto.PostResponse, error) {
	page, limit := defaultedPage(req)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	posts, err := uow.PostRepository().FindAll(ctx,
		specification.WithHashtag{Hashtag: hashtag},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, uow, posts, callerId)
}

func (s *postService) ByAuthor(ctx context.Context, callerId uuid.UUID, username string, req *dto.FeedRequest) ([]*dto.PostResponse, error) {
	page, limit := defaultedPage(req)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	author, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, serverutils.NewNotFoundError("User not found")
	}

	posts, err := uow.PostRepository().FindAll(ctx,
		specification.AuthoredBy{AuthorID: author.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, uow, posts, callerId)
}

func (s *postService) TrendingHashtags(ctx context.Context, limit int) ([]*dto.HashtagResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.PostRepository().TrendingHashtags(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.HashtagResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, &dto.HashtagResponse{Hashtag: row.Hashtag, Count: row.Count})
	}
	return result, nil
}

func (s *postService) Like(ctx context.Context, userId, postId uuid.UUID) (*dto.LikeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: postId})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, serverutils.NewNotFoundError("Post not found")
	}

	created, err := uow.PostRepository().AddLike(ctx, postId, userId)
	if err != nil {
		return nil, err
	}

	likeCount := int64(post.LikeCount)
	if created {
		if err := uow.PostRepository().AdjustLikeCount(ctx, postId, 1); err != nil {
			return nil, err
		}
		likeCount++
		s.queueTrendingRecompute(ctx, postId)

		if s.eventPublisher != nil && post.AuthorId != userId {
			evt := events.New(events.TypePostLiked, map[string]interface{}{
				"post_id":   postId.String(),
				"author_id": post.AuthorId.String(),
				"liker_id":  userId.String(),
			})
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				s.logger.Warn("post", "Failed to publish like event", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return &dto.LikeResponse{Liked: true, LikeCount: likeCount}, nil
}

func (s *postService) Unlike(ctx context.Context, userId, postId uuid.UUID) (*dto.LikeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: postId})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, serverutils.NewNotFoundError("Post not found")
	}

	removed, err := uow.PostRepository().RemoveLike(ctx, postId, userId)
	if err != nil {
		return nil, err
	}

	likeCount := int64(post.LikeCount)
	if removed {
		if err := uow.PostRepository().AdjustLikeCount(ctx, postId, -1); err != nil {
			return nil, err
		}
		if likeCount > 0 {
			likeCount--
		}
		s.queueTrendingRecompute(ctx, postId)
	}

	return &dto.LikeResponse{Liked: false, LikeCount: likeCount}, nil
}

func (s *postService) queueTrendingRecompute(ctx context.Context, postId uuid.UUID) {
	if s.publisherService == nil {
		return
	}
	payload, err := json.Marshal(dto.TrendingRecomputeMessage{PostId: postId})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("post", "Failed to queue trending recompute", map[string]interface{}{
			"post_id": postId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *postService) toResponse(ctx context.Context, uow unitofwork.UnitOfWork, post *entity.Post, callerId uuid.UUID) (*dto.PostResponse, error) {
	responses, err := s.toResponses(ctx, uow, []*entity.Post{post}, callerId)
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

func (s *postService) toResponses(ctx context.Context, uow unitofwork.UnitOfWork, posts []*entity.Post, callerId uuid.UUID) ([]*dto.PostResponse, error) {
	if len(posts) == 0 {
		return []*dto.PostResponse{}, nil
	}

	authorIds := make([]uuid.UUID, 0, len(posts))
	seen := make(map[uuid.UUID]bool)
	for _, post := range posts {
		if !seen[post.AuthorId] {
			seen[post.AuthorId] = true
			authorIds = append(authorIds, post.AuthorId)
		}
	}

	authors, err := uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: authorIds})
	if err != nil {
		return nil, err
	}
	authorById := make(map[uuid.UUID]*entity.User, len(authors))
	for _, author := range authors {
		authorById[author.Id] = author
	}

	result := make([]*dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		res := &dto.PostResponse{
			Id:           post.Id,
			Caption:      post.Caption,
			MediaType:    string(post.MediaType),
			MediaURL:     post.MediaURL,
			ThumbnailURL: post.ThumbnailURL,
			Hashtags:     post.Hashtags,
			LikeCount:    int64(post.LikeCount),
			CommentCount: int64(post.CommentCount),
			CreatedAt:    post.CreatedAt,
		}
		if author, ok := authorById[post.AuthorId]; ok {
			res.Author = dto.AuthorSummary{
				Id:          author.Id,
				Username:    author.Username,
				DisplayName: author.DisplayName,
				AvatarURL:   author.AvatarURL,
			}
		}
		if callerId != uuid.Nil {
			liked, err := uow.PostRepository().HasLiked(ctx, post.Id, callerId)
			if err != nil {
				return nil, err
			}
			res.HasLiked = liked
		}
		tipTotal, err := uow.TipRepository().SumForPost(ctx, post.Id)
		if err != nil {
			return nil, err
		}
		res.TipTotal = tipTotal
		result = append(result, res)
	}
	return result, nil
}

// TrendingScore weighs recent engagement. Comments outweigh likes, tips add
// dollar for dollar; posts older than a day decay linearly so old hits
// rotate out.
func TrendingScore(likeCount, commentCount int, tipTotal float64, createdAt, now time.Time) float64 {
	ageDays := now.Sub(createdAt).Hours() / 24
	if ageDays < 1 {
		ageDays = 1
	}
	engagement := 2*float64(likeCount) + 3*float64(commentCount) + tipTotal
	return engagement / ageDays
}
