package mapper

import (
	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/model"

	"gorm.io/datatypes"
)

type PostMapper struct{}

func NewPostMapper() *PostMapper {
	return &PostMapper{}
}

func (m *PostMapper) ToEntity(p *model.Post) *entity.Post {
	if p == nil {
		return nil
	}
	return &entity.Post{
		Id:            p.Id,
		AuthorId:      p.AuthorId,
		Caption:       p.Caption,
		MediaType:     entity.MediaType(p.MediaType),
		MediaURL:      p.MediaURL,
		ThumbnailURL:  p.ThumbnailURL,
		Hashtags:      []string(p.Hashtags),
		LikeCount:     p.LikeCount,
		CommentCount:  p.CommentCount,
		TrendingScore: p.TrendingScore,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m *PostMapper) ToModel(p *entity.Post) *model.Post {
	if p == nil {
		return nil
	}
	return &model.Post{
		Id:            p.Id,
		AuthorId:      p.AuthorId,
		Caption:       p.Caption,
		MediaType:     string(p.MediaType),
		MediaURL:      p.MediaURL,
		ThumbnailURL:  p.ThumbnailURL,
		Hashtags:      datatypes.NewJSONSlice(p.Hashtags),
		LikeCount:     p.LikeCount,
		CommentCount:  p.CommentCount,
		TrendingScore: p.TrendingScore,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m *PostMapper) ToEntities(models []*model.Post) []*entity.Post {
	result := make([]*entity.Post, 0, len(models))
	for _, p := range models {
		result = append(result, m.ToEntity(p))
	}
	return result
}

func (m *PostMapper) CommentToEntity(c *model.Comment) *entity.Comment {
	if c == nil {
		return nil
	}
	return &entity.Comment{
		Id:        c.Id,
		PostId:    c.PostId,
		AuthorId:  c.AuthorId,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func (m *PostMapper) CommentToModel(c *entity.Comment) *model.Comment {
	if c == nil {
		return nil
	}
	return &model.Comment{
		Id:        c.Id,
		PostId:    c.PostId,
		AuthorId:  c.AuthorId,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func (m *PostMapper) CommentsToEntities(models []*model.Comment) []*entity.Comment {
	result := make([]*entity.Comment, 0, len(models))
	for _, c := range models {
		result = append(result, m.CommentToEntity(c))
	}
	return result
}
