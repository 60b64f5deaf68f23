package usecase

import (
	"context"

	"healthmate/internal/pkg/apperror"
	notification "healthmate/internal/pkg/notification/application/domain"
)

// ArticleNotice is posted by the articles feature when new content should be
// surfaced to a user.
type ArticleNotice struct {
	UserID    string `json:"userId"`
	ArticleID string `json:"articleId"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
}

// ArticleTriggerUseCase creates an article notification deep-linking to the
// published article.
type ArticleTriggerUseCase struct {
	Create *CreateNotificationUseCase
}

func NewArticleTriggerUseCase(create *CreateNotificationUseCase) *ArticleTriggerUseCase {
	return &ArticleTriggerUseCase{Create: create}
}

func (uc *ArticleTriggerUseCase) Execute(ctx context.Context, in ArticleNotice) (*notification.Notification, error) {
	if in.UserID == "" || in.ArticleID == "" {
		return nil, apperror.Validation("userId and articleId are required")
	}

	title := in.Title
	if title == "" {
		title = "New article for you"
	}
	summary := in.Summary
	if summary == "" {
		summary = "A new article was published. Tap to read it."
	}

	return uc.Create.Execute(ctx, &notification.Notification{
		UserID:      in.UserID,
		Type:        notification.TypeArticle,
		Title:       notification.Truncate(title, 197),
		Description: notification.Truncate(summary, 497),
		DeepLink:    &notification.DeepLink{Pathname: "/articles/" + in.ArticleID},
		Meta:        map[string]string{"articleId": in.ArticleID},
	})
}
