package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/validation"
)

var mentionPattern = regexp.MustCompile(`(?:^|\s)@([A-Za-z][A-Za-z0-9._-]{2,29})`)

type tweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
	noticeSvc NotificationService
}

func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository, noticeSvc NotificationService) TweetService {
	return &tweetService{tweetRepo: tweetRepo, userRepo: userRepo, noticeSvc: noticeSvc}
}

func (s *tweetService) user(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, validation.CanonicalUsername(username))
	return u, notFound(err, "user")
}

func (s *tweetService) Follow(ctx context.Context, followerID int32, username string) error {
	followed, err := s.user(ctx, username)
	if err != nil {
		return err
	}
	if followed.ID == followerID {
		return ErrSelfAction
	}
	following, err := s.tweetRepo.IsFollowing(ctx, followerID, followed.ID)
	if err != nil {
		return err
	}
	if following {
		return ErrAlreadyFollowing
	}
	if err := s.tweetRepo.Follow(ctx, followerID, followed.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

func (s *tweetService) Unfollow(ctx context.Context, followerID int32, username string) error {
	followed, err := s.user(ctx, username)
	if err != nil {
		return err
	}
	return notFound(s.tweetRepo.Unfollow(ctx, followerID, followed.ID), "following")
}

func (s *tweetService) Followers(ctx context.Context, username string) ([]domain.User, error) {
	u, err := s.user(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.tweetRepo.ListFollowers(ctx, u.ID)
}

func (s *tweetService) Following(ctx context.Context, username string) ([]domain.User, error) {
	u, err := s.user(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.tweetRepo.ListFollowing(ctx, u.ID)
}

// mentions returns the canonical usernames @-mentioned in text, in order of appearance
func mentions(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		name := validation.CanonicalUsername(strings.TrimRight(m[1], "."))
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func (s *tweetService) Post(ctx context.Context, senderID int32, text string) (*domain.Tweet, error) {
	logger.EnterMethod("tweetService.Post", "senderID", senderID)

	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n == 0 || n > domain.MaxTweetLength {
		return nil, invalidf("tweet must be 1 to %d characters", domain.MaxTweetLength)
	}
	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	followers, err := s.tweetRepo.ListFollowers(ctx, senderID)
	if err != nil {
		return nil, err
	}
	var mentioned []domain.User
	if names := mentions(text); len(names) > 0 {
		if mentioned, err = s.userRepo.ListByUsernames(ctx, names); err != nil {
			return nil, err
		}
	}

	recipients := []int32{senderID}
	seen := map[int32]bool{senderID: true}
	for _, group := range [][]domain.User{followers, mentioned} {
		for _, u := range group {
			if !seen[u.ID] {
				seen[u.ID] = true
				recipients = append(recipients, u.ID)
			}
		}
	}

	tweet := &domain.Tweet{SenderID: senderID, Sender: sender.Username, Text: text}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		logger.ExitMethodWithError("tweetService.Post", err, "senderID", senderID)
		return nil, err
	}
	if err := s.tweetRepo.Deliver(ctx, tweet, recipients); err != nil {
		return nil, err
	}

	if len(mentioned) > 0 {
		ids := make([]int32, 0, len(mentioned))
		for _, u := range mentioned {
			ids = append(ids, u.ID)
		}
		err := s.noticeSvc.Send(ctx, NoticeInput{
			Recipients: ids,
			SenderID:   &senderID,
			Label:      NoticeTweetReply,
			Message:    fmt.Sprintf("%s mentioned you: %s", sender.Username, text),
			Attributes: map[string]string{"tweet_id": fmt.Sprint(tweet.ID), "sender": sender.Username},
			Queue:      true,
		})
		if err != nil {
			logger.Error("Failed to send mention notices", "tweetID", tweet.ID, "error", err)
		}
	}

	logger.ExitMethod("tweetService.Post", "tweetID", tweet.ID, "delivered", len(recipients))
	return tweet, nil
}

func (s *tweetService) Timeline(ctx context.Context, userID, page, pageSize int32) ([]domain.Tweet, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.tweetRepo.Timeline(ctx, userID, page, pageSize)
}

func (s *tweetService) UserTweets(ctx context.Context, username string, limit int32) ([]domain.Tweet, error) {
	u, err := s.user(ctx, username)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.tweetRepo.ListBySender(ctx, u.ID, limit)
}
