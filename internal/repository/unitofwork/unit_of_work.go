package unitofwork

import (
	"context"

	"rap-for-money-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	FollowRepository() contract.FollowRepository
	PostRepository() contract.PostRepository
	CommentRepository() contract.CommentRepository
	TipRepository() contract.TipRepository
	LivestreamRepository() contract.LivestreamRepository
}
