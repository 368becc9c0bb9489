package reviews

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type TitlesStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
}

type ReviewsStorage interface {
	Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error)
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	GetByAuthorAndTitle(ctx context.Context, authorID, titleID int64) (*models.Review, error)
	ListForTitle(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error)
	Update(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, titleID, id int64) error
}

type CommentsStorage interface {
	Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error)
	Get(ctx context.Context, reviewID, id int64) (*models.Comment, error)
	ListForReview(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error)
	Update(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, reviewID, id int64) error
}

type ReviewsService struct {
	log      *slog.Logger
	titles   TitlesStorage
	reviews  ReviewsStorage
	comments CommentsStorage
}

func New(log *slog.Logger, titles TitlesStorage, reviews ReviewsStorage, comments CommentsStorage) *ReviewsService {
	return &ReviewsService{
		log:      log,
		titles:   titles,
		reviews:  reviews,
		comments: comments,
	}
}

func (s *ReviewsService) ensureTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titles.Get(ctx, titleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *ReviewsService) ListReviews(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error) {
	const op = "reviews.ReviewsService.ListReviews"
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	reviews, total, err := s.reviews.ListForTitle(ctx, titleID, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return reviews, total, nil
}

// CreateReview enforces the one-review-per-(author, title) invariant: a
// pre-check rejects early, and a concurrent duplicate slipping past it is
// caught by the storage unique constraint and mapped to the same error.
func (s *ReviewsService) CreateReview(ctx context.Context, titleID int64, author *models.User, text string, score int32) (*models.Review, error) {
	const op = "reviews.ReviewsService.CreateReview"
	log := s.log.With("op", op, "titleID", titleID, "author", author.Username)
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if _, err := s.reviews.GetByAuthorAndTitle(ctx, author.ID, titleID); err == nil {
		log.Info("duplicate review rejected")
		return nil, ErrReviewExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Error(err.Error())
		return nil, err
	}
	review, err := s.reviews.Insert(ctx, titleID, author.ID, text, score)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("duplicate review rejected by constraint")
			return nil, ErrReviewExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewsService) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	const op = "reviews.ReviewsService.GetReview"
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviews.Get(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewsService) UpdateReview(ctx context.Context, titleID, reviewID int64, text *string, score *int32) (*models.Review, error) {
	const op = "reviews.ReviewsService.UpdateReview"
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if text != nil {
		review.Text = *text
	}
	if score != nil {
		review.Score = *score
	}
	updated, err := s.reviews.Update(ctx, review)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewsService) DeleteReview(ctx context.Context, titleID, reviewID int64) error {
	const op = "reviews.ReviewsService.DeleteReview"
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReviewNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return err
	}
	return nil
}

func (s *ReviewsService) ListComments(ctx context.Context, titleID, reviewID int64, f filters.Filters) ([]models.Comment, int, error) {
	const op = "reviews.ReviewsService.ListComments"
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.comments.ListForReview(ctx, reviewID, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return comments, total, nil
}

// CreateComment only needs the parent review to exist; unlike reviews there
// is no per-author uniqueness.
func (s *ReviewsService) CreateComment(ctx context.Context, titleID, reviewID int64, author *models.User, text string) (*models.Comment, error) {
	const op = "reviews.ReviewsService.CreateComment"
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Insert(ctx, reviewID, author.ID, text)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewsService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	const op = "reviews.ReviewsService.GetComment"
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Get(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewsService) UpdateComment(ctx context.Context, titleID, reviewID, commentID int64, text string) (*models.Comment, error) {
	const op = "reviews.ReviewsService.UpdateComment"
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	comment.Text = text
	updated, err := s.comments.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewsService) DeleteComment(ctx context.Context, titleID, reviewID, commentID int64) error {
	const op = "reviews.ReviewsService.DeleteComment"
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, reviewID, commentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return err
	}
	return nil
}
