package service

import (
	"context"
	"errors"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

const maxTopObjects = 100

type voteService struct {
	voteRepo repository.VoteRepository
}

func NewVoteService(voteRepo repository.VoteRepository) VoteService {
	return &voteService{voteRepo: voteRepo}
}

func (s *voteService) RecordVote(ctx context.Context, userID int32, ref domain.ObjectRef, direction domain.VoteDirection) (*domain.Score, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	value, ok := direction.Value()
	if !ok {
		return nil, invalidf("unknown vote direction %q", direction)
	}

	if value == 0 {
		if err := s.voteRepo.Delete(ctx, userID, ref); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	} else {
		vote := &domain.Vote{UserID: userID, ObjectType: ref.Type, ObjectID: ref.ID, Vote: value}
		if err := s.voteRepo.Upsert(ctx, vote); err != nil {
			return nil, err
		}
	}
	return s.voteRepo.Score(ctx, ref)
}

func (s *voteService) GetScore(ctx context.Context, ref domain.ObjectRef) (*domain.Score, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	return s.voteRepo.Score(ctx, ref)
}

func (s *voteService) GetVote(ctx context.Context, userID int32, ref domain.ObjectRef) (*domain.Vote, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	vote, err := s.voteRepo.Get(ctx, userID, ref)
	return vote, notFound(err, "vote")
}

func (s *voteService) TopObjects(ctx context.Context, objectType domain.ObjectType, limit int32) ([]domain.Score, error) {
	if !objectType.Valid() {
		return nil, invalidf("unknown object type %q", objectType)
	}
	if limit <= 0 || limit > maxTopObjects {
		limit = 10
	}
	return s.voteRepo.Top(ctx, objectType, limit)
}

func (s *voteService) ScoresFor(ctx context.Context, objectType domain.ObjectType, ids []int32) ([]domain.Score, error) {
	if !objectType.Valid() {
		return nil, invalidf("unknown object type %q", objectType)
	}
	if len(ids) == 0 {
		return []domain.Score{}, nil
	}
	return s.voteRepo.Scores(ctx, objectType, ids)
}
