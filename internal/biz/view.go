package biz

import (
	"context"
	"fmt"
	"strings"
)

// RecordView attributes a view of movieID to userID and bumps its score.
func (uc *ListingUseCase) RecordView(ctx context.Context, userID string, movieID int64) error {
	// Check if movie exists
	if _, err := uc.repo.FindByID(ctx, movieID); err != nil {
		return fmt.Errorf("failed to get movie: %w", err)
	}

	if err := uc.popularity.OnView(ctx, movieID); err != nil {
		return err
	}

	uc.log.WithContext(ctx).Debugf("user %q viewed movie %d", strings.TrimSpace(userID), movieID)
	return nil
}
