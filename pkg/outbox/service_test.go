package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.OutboxEvent{}))
	return conn
}

func TestEmitStoresEnvelope(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	svc := NewService(repo, nil)

	orderID := uuid.New()
	userID := uuid.New()
	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Actor:         &ActorRef{UserID: userID, Role: enums.UserRoleCustomer},
			Data:          map[string]any{"orderId": orderID.String()},
		})
	})
	require.NoError(t, err)

	rows, err := repo.FetchUnpublished(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, enums.EventOrderPlaced, rows[0].EventType)
	require.Equal(t, orderID, rows[0].AggregateID)

	env, err := DecodeEnvelope(rows[0].Payload)
	require.NoError(t, err)
	require.Equal(t, 1, env.Version)
	require.NotEmpty(t, env.EventID)
	require.Equal(t, userID, env.Actor.UserID)
	require.JSONEq(t, `{"orderId":"`+orderID.String()+`"}`, string(env.Data))
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	err := svc.Emit(context.Background(), nil, DomainEvent{EventType: enums.EventOrderPlaced, AggregateType: enums.AggregateOrder})
	require.Error(t, err)
}

func TestEmitRejectsUnknownEventType(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(NewRepository(conn), nil)
	err := svc.Emit(context.Background(), conn, DomainEvent{EventType: "order.exploded", AggregateType: enums.AggregateOrder})
	require.Error(t, err)
}

func TestEmitRolledBackWithTransaction(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	svc := NewService(repo, nil)

	_ = conn.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
		}))
		return gorm.ErrInvalidTransaction
	})

	rows, err := repo.FetchUnpublished(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestRepositoryLifecycle(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	first := models.OutboxEvent{EventType: enums.EventOrderPlaced, AggregateType: enums.AggregateOrder, AggregateID: uuid.New(), Payload: []byte(`{}`)}
	second := models.OutboxEvent{EventType: enums.EventOrderCancelled, AggregateType: enums.AggregateOrder, AggregateID: uuid.New(), Payload: []byte(`{}`)}
	require.NoError(t, repo.Insert(conn, first))
	require.NoError(t, repo.Insert(conn, second))

	rows, err := repo.FetchUnpublished(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, repo.MarkFailed(ctx, rows[1].ID, context.DeadlineExceeded))
	require.NoError(t, repo.MarkFailed(ctx, rows[1].ID, context.DeadlineExceeded))
	rows2, err := repo.FetchUnpublished(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, rows2, 1, "exhausted row is skipped")

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, repo.MarkPublished(ctx, rows[0].ID, old))
	rows3, err := repo.FetchUnpublished(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows3, 1)

	deleted, err := repo.DeletePublishedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)
}
