package postgresql

import (
	"context"
	"fmt"

	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/database"
)

type followRepositoryImpl struct {
	db *database.DB
}

func NewFollowRepository(db *database.DB) user.FollowRepository {
	return &followRepositoryImpl{db: db}
}

func (r *followRepositoryImpl) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, followingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

// Follow is idempotent.
func (r *followRepositoryImpl) Follow(ctx context.Context, followerID, followingID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to follow user %s: %w", followingID, err)
	}
	return nil
}

func (r *followRepositoryImpl) Unfollow(ctx context.Context, followerID, followingID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to unfollow user %s: %w", followingID, err)
	}
	return nil
}

func (r *followRepositoryImpl) CountFollowers(ctx context.Context, userID string) (int, error) {
	return countFollows(ctx, GetQuerier(ctx, r.db), `SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID)
}

func (r *followRepositoryImpl) CountFollowing(ctx context.Context, userID string) (int, error) {
	return countFollows(ctx, GetQuerier(ctx, r.db), `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID)
}

func (r *followRepositoryImpl) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return followerIDs(ctx, GetQuerier(ctx, r.db), userID)
}

func countFollows(ctx context.Context, q database.Querier, query, userID string) (int, error) {
	var n int
	if err := q.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count follows: %w", err)
	}
	return n, nil
}

func followerIDs(ctx context.Context, q database.Querier, userID string) ([]string, error) {
	rows, err := q.Query(ctx, `SELECT follower_id FROM follows WHERE following_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query followers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follower: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
