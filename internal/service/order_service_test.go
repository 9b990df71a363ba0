package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sumanshop/internal/kvstore"
	"sumanshop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminSession() *model.Session {
	return &model.Session{Token: "tok-admin", UserID: "admin-1", Role: model.RoleAdmin}
}

func pendingOrder(userID string) *model.Order {
	return &model.Order{
		ID:            uuid.New(),
		UserID:        userID,
		ProductID:     "A",
		Quantity:      1,
		TotalAmount:   decimal.RequireFromString("29.99"),
		PaymentMethod: model.PaymentBankTransfer,
		Status:        model.StatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func newOrderService(repo *MockOrderRepository, cfg OrderConfig) OrderService {
	return NewOrderService(repo, kvstore.NewMemoryStore(), cfg, zerolog.Nop())
}

func TestOrderService_UpdateStatus_Confirm(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newOrderService(repo, OrderConfig{})

	order := pendingOrder("user-1")
	notes := "verified"
	confirmed := *order
	confirmed.Status = model.StatusConfirmed
	confirmed.Notes = &notes

	repo.On("GetByID", ctx, order.ID).Return(order, nil).Once()
	repo.On("UpdateStatus", ctx, order.ID, model.StatusPending, model.StatusConfirmed, &notes).
		Return(true, nil)
	repo.On("GetByID", ctx, order.ID).Return(&confirmed, nil).Once()

	updated, err := svc.UpdateStatus(ctx, adminSession(), order.ID, &model.StatusUpdateRequest{
		Status: model.StatusConfirmed,
		Notes:  &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, updated.Status)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "verified", *updated.Notes)

	repo.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_TerminalIsAbsorbing(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		from model.OrderStatus
		to   model.OrderStatus
	}{
		{"confirmed to cancelled", model.StatusConfirmed, model.StatusCancelled},
		{"cancelled to confirmed", model.StatusCancelled, model.StatusConfirmed},
		{"confirmed to pending", model.StatusConfirmed, model.StatusPending},
		{"cancelled to pending", model.StatusCancelled, model.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			svc := newOrderService(repo, OrderConfig{})

			order := pendingOrder("user-1")
			order.Status = tt.from
			repo.On("GetByID", ctx, order.ID).Return(order, nil)

			_, err := svc.UpdateStatus(ctx, adminSession(), order.ID, &model.StatusUpdateRequest{Status: tt.to})
			assert.Equal(t, model.ErrInvalidTransition, err)

			repo.AssertNotCalled(t, "UpdateStatus")
		})
	}
}

func TestOrderService_UpdateStatus_RevertFlag(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newOrderService(repo, OrderConfig{AllowTerminalRevert: true})

	order := pendingOrder("user-1")
	order.Status = model.StatusConfirmed
	reverted := *order
	reverted.Status = model.StatusPending

	repo.On("GetByID", ctx, order.ID).Return(order, nil).Once()
	repo.On("UpdateStatus", ctx, order.ID, model.StatusConfirmed, model.StatusPending, (*string)(nil)).
		Return(true, nil)
	repo.On("GetByID", ctx, order.ID).Return(&reverted, nil).Once()

	updated, err := svc.UpdateStatus(ctx, adminSession(), order.ID, &model.StatusUpdateRequest{Status: model.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, updated.Status)
}

func TestOrderService_UpdateStatus_AdminOnly(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := newOrderService(repo, OrderConfig{})

	_, err := svc.UpdateStatus(context.Background(), userSession(), uuid.New(), &model.StatusUpdateRequest{Status: model.StatusConfirmed})
	assert.Equal(t, model.ErrForbidden, err)

	_, err = svc.UpdateStatus(context.Background(), nil, uuid.New(), &model.StatusUpdateRequest{Status: model.StatusConfirmed})
	assert.Equal(t, model.ErrForbidden, err)

	repo.AssertNotCalled(t, "GetByID")
}

func TestOrderService_UpdateStatus_LostRace(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newOrderService(repo, OrderConfig{})

	order := pendingOrder("user-1")
	repo.On("GetByID", ctx, order.ID).Return(order, nil)
	// Another admin moved the order between our read and the update.
	repo.On("UpdateStatus", ctx, order.ID, model.StatusPending, model.StatusCancelled, (*string)(nil)).
		Return(false, nil)

	_, err := svc.UpdateStatus(ctx, adminSession(), order.ID, &model.StatusUpdateRequest{Status: model.StatusCancelled})
	assert.Equal(t, model.ErrStatusUpdateFailed, err)
}

func TestOrderService_UpdateStatus_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newOrderService(repo, OrderConfig{})

	order := pendingOrder("user-1")
	repo.On("GetByID", ctx, order.ID).Return(order, nil)
	repo.On("UpdateStatus", ctx, order.ID, model.StatusPending, model.StatusConfirmed, (*string)(nil)).
		Return(false, errors.New("connection reset"))

	_, err := svc.UpdateStatus(ctx, adminSession(), order.ID, &model.StatusUpdateRequest{Status: model.StatusConfirmed})
	assert.Equal(t, model.ErrStatusUpdateFailed, err)
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newOrderService(repo, OrderConfig{})

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(nil, nil)

	_, err := svc.UpdateStatus(ctx, adminSession(), id, &model.StatusUpdateRequest{Status: model.StatusConfirmed})
	assert.Equal(t, model.ErrOrderNotFound, err)
}

func TestOrderService_GetByID_Ownership(t *testing.T) {
	ctx := context.Background()
	order := pendingOrder("user-1")

	tests := []struct {
		name    string
		sess    *model.Session
		wantErr error
	}{
		{"owner may read", userSession(), nil},
		{"admin may read", adminSession(), nil},
		{"stranger may not", &model.Session{UserID: "user-2", Role: model.RoleUser}, model.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			svc := newOrderService(repo, OrderConfig{})
			repo.On("GetByID", ctx, order.ID).Return(order, nil)

			got, err := svc.GetByID(ctx, tt.sess, order.ID)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, order.ID, got.ID)
			}
		})
	}
}

func TestOrderService_ListByUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newOrderService(repo, OrderConfig{})

	orders := []model.Order{*pendingOrder("user-1"), *pendingOrder("user-1")}
	repo.On("ListByUser", ctx, "user-1").Return(orders, nil)

	got, err := svc.ListByUser(ctx, userSession())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.ListByUser(ctx, nil)
	assert.Equal(t, model.ErrAuthenticationRequired, err)
}

func TestOrderService_ListLocal(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	store := kvstore.NewMemoryStore()
	svc := NewOrderService(repo, store, OrderConfig{}, zerolog.Nop())

	// No fallback records yet.
	got, err := svc.ListLocal(ctx, userSession())
	require.NoError(t, err)
	assert.Empty(t, got)

	locals := []model.Order{*pendingOrder("user-1")}
	require.NoError(t, appendLocalOrders(ctx, store, "user-1", locals))

	got, err = svc.ListLocal(ctx, userSession())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, locals[0].ID, got[0].ID)
}

func TestOrderService_List_AdminOnly(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newOrderService(repo, OrderConfig{})

	_, err := svc.List(ctx, userSession(), nil)
	assert.Equal(t, model.ErrForbidden, err)

	pending := model.StatusPending
	repo.On("List", ctx, &pending).Return([]model.Order{*pendingOrder("user-1")}, nil)

	got, err := svc.List(ctx, adminSession(), &pending)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
