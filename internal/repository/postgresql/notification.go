package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/database"
)

// notificationBatchSize keeps multi-row inserts under the bind parameter limit.
const notificationBatchSize = 1000

const notificationColumns = `n.id, n.type, n.title, n.body, n.image_url, n.recipient_id, n.trigger_user_id,
	n.destination_id, n.read, n.created_at,
	u.id, u.username, u.name, u.avatar_url`

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

func prepareNotification(n *notification.Notification) {
	if n.ID == "" {
		n.ID = uuid.Must(uuid.NewV7()).String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
}

// Create creates a new notification
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)
	prepareNotification(n)

	query := `
		INSERT INTO notifications (id, type, title, body, image_url, recipient_id, trigger_user_id, destination_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		n.ID,
		string(n.Type),
		n.Title,
		n.Body,
		n.ImageURL,
		n.RecipientID,
		n.TriggerUserID,
		n.DestinationID,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// CreateBatch inserts the rows in chunks of multi-row INSERTs
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	for start := 0; start < len(notifications); start += notificationBatchSize {
		end := min(start+notificationBatchSize, len(notifications))
		chunk := notifications[start:end]

		valueStrings := make([]string, 0, len(chunk))
		valueArgs := make([]any, 0, len(chunk)*10)

		for i, n := range chunk {
			prepareNotification(n)

			base := i * 10
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
			))
			valueArgs = append(valueArgs,
				n.ID,
				string(n.Type),
				n.Title,
				n.Body,
				n.ImageURL,
				n.RecipientID,
				n.TriggerUserID,
				n.DestinationID,
				n.Read,
				n.CreatedAt,
			)
		}

		query := fmt.Sprintf(`
			INSERT INTO notifications (id, type, title, body, image_url, recipient_id, trigger_user_id, destination_id, read, created_at)
			VALUES %s
		`, strings.Join(valueStrings, ", "))

		if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
			return fmt.Errorf("failed to batch create notifications: %w", err)
		}
	}

	return nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		n         notification.Notification
		notifType string
		trigID    *string
		trigName  *string
		trigUser  *string
		trigAvtr  *string
	)
	err := row.Scan(
		&n.ID,
		&notifType,
		&n.Title,
		&n.Body,
		&n.ImageURL,
		&n.RecipientID,
		&n.TriggerUserID,
		&n.DestinationID,
		&n.Read,
		&n.CreatedAt,
		&trigID,
		&trigUser,
		&trigName,
		&trigAvtr,
	)
	if err != nil {
		return nil, err
	}

	n.Type = notification.NotificationType(notifType)
	if trigID != nil && trigUser != nil {
		n.TriggerUser = &user.UserSummary{
			ID:        *trigID,
			Username:  *trigUser,
			Name:      trigName,
			AvatarURL: trigAvtr,
		}
	}
	return &n, nil
}

// List returns one page of the recipient's notifications and the total number of matches
func (r *notificationRepository) List(ctx context.Context, filter notification.ListFilter) ([]*notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "n.recipient_id = $1"
	args := []any{filter.RecipientID}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		whereClause += fmt.Sprintf(" AND (n.title ILIKE $%d OR n.body ILIKE $%d)", len(args), len(args))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		whereClause += fmt.Sprintf(" AND n.type = $%d", len(args))
	}
	if filter.Read != nil {
		args = append(args, *filter.Read)
		whereClause += fmt.Sprintf(" AND n.read = $%d", len(args))
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM notifications n WHERE %s", whereClause)
	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	direction := "ASC"
	if filter.SortOrder == notification.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications n
		LEFT JOIN users u ON u.id = n.trigger_user_id
		WHERE %s
		ORDER BY n.created_at %s, n.id %s
		LIMIT $%d OFFSET $%d
	`, notificationColumns, whereClause, direction, direction, len(args)+1, len(args)+2)

	args = append(args, filter.PageSize, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0, filter.PageSize)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// Count returns the number of the user's notifications, optionally of one type
func (r *notificationRepository) Count(ctx context.Context, userID string, notifType *notification.NotificationType) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`
	args := []any{userID}
	if notifType != nil {
		query += ` AND type = $2`
		args = append(args, string(*notifType))
	}

	var count int
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// CountUnread returns the count of unread notifications for a user
func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = false`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// SetRead flips one notification owned by userID. Rows of other users are
// reported as not found and left untouched.
func (r *notificationRepository) SetRead(ctx context.Context, id, userID string, read bool) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var current bool
	err := q.QueryRow(ctx, `SELECT read FROM notifications WHERE id = $1 AND recipient_id = $2`, id, userID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notification.ErrNotificationNotFound
		}
		return 0, fmt.Errorf("failed to get notification: %w", err)
	}
	if current == read {
		return 0, nil
	}

	tag, err := q.Exec(ctx, `UPDATE notifications SET read = $3 WHERE id = $1 AND recipient_id = $2`, id, userID, read)
	if err != nil {
		return 0, fmt.Errorf("failed to update notification read status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetReadAll flips every notification of the user still in the other state
func (r *notificationRepository) SetReadAll(ctx context.Context, userID string, read bool) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE notifications SET read = $2 WHERE recipient_id = $1 AND read <> $2`, userID, read)
	if err != nil {
		return 0, fmt.Errorf("failed to update notifications read status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
