package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	FetchWindowFunc func(ctx context.Context, workspaceID uuid.UUID, from, to time.Time, filter domain.ItemFilter) ([]domain.ScheduledItem, error)
	UpdateDateFunc  func(ctx context.Context, workspaceID, itemID uuid.UUID, newDate time.Time, newStart, newEnd *time.Time) error

	calls struct {
		FetchWindow []struct {
			WorkspaceID uuid.UUID
			From        time.Time
			To          time.Time
			Filter      domain.ItemFilter
		}
		UpdateDate []struct {
			WorkspaceID uuid.UUID
			ItemID      uuid.UUID
			NewDate     time.Time
			NewStart    *time.Time
			NewEnd      *time.Time
		}
	}
	lockFetchWindow sync.RWMutex
	lockUpdateDate  sync.RWMutex
}

func (mock *itemRepoMock) FetchWindow(ctx context.Context, workspaceID uuid.UUID, from, to time.Time, filter domain.ItemFilter) ([]domain.ScheduledItem, error) {
	if mock.FetchWindowFunc == nil {
		panic("itemRepoMock.FetchWindowFunc: method is nil but itemRepo.FetchWindow was just called")
	}
	callInfo := struct {
		WorkspaceID uuid.UUID
		From        time.Time
		To          time.Time
		Filter      domain.ItemFilter
	}{WorkspaceID: workspaceID, From: from, To: to, Filter: filter}
	mock.lockFetchWindow.Lock()
	mock.calls.FetchWindow = append(mock.calls.FetchWindow, callInfo)
	mock.lockFetchWindow.Unlock()
	return mock.FetchWindowFunc(ctx, workspaceID, from, to, filter)
}

func (mock *itemRepoMock) FetchWindowCalls() []struct {
	WorkspaceID uuid.UUID
	From        time.Time
	To          time.Time
	Filter      domain.ItemFilter
} {
	mock.lockFetchWindow.RLock()
	calls := mock.calls.FetchWindow
	mock.lockFetchWindow.RUnlock()
	return calls
}

func (mock *itemRepoMock) UpdateDate(ctx context.Context, workspaceID, itemID uuid.UUID, newDate time.Time, newStart, newEnd *time.Time) error {
	if mock.UpdateDateFunc == nil {
		panic("itemRepoMock.UpdateDateFunc: method is nil but itemRepo.UpdateDate was just called")
	}
	callInfo := struct {
		WorkspaceID uuid.UUID
		ItemID      uuid.UUID
		NewDate     time.Time
		NewStart    *time.Time
		NewEnd      *time.Time
	}{WorkspaceID: workspaceID, ItemID: itemID, NewDate: newDate, NewStart: newStart, NewEnd: newEnd}
	mock.lockUpdateDate.Lock()
	mock.calls.UpdateDate = append(mock.calls.UpdateDate, callInfo)
	mock.lockUpdateDate.Unlock()
	return mock.UpdateDateFunc(ctx, workspaceID, itemID, newDate, newStart, newEnd)
}

func (mock *itemRepoMock) UpdateDateCalls() []struct {
	WorkspaceID uuid.UUID
	ItemID      uuid.UUID
	NewDate     time.Time
	NewStart    *time.Time
	NewEnd      *time.Time
} {
	mock.lockUpdateDate.RLock()
	calls := mock.calls.UpdateDate
	mock.lockUpdateDate.RUnlock()
	return calls
}

var _ moveRepo = &moveRepoMock{}

type moveRepoMock struct {
	CreateFunc     func(ctx context.Context, move domain.ItemMove) error
	ListByItemFunc func(ctx context.Context, workspaceID, itemID uuid.UUID, limit int) ([]domain.ItemMove, error)

	calls struct {
		Create []struct {
			Move domain.ItemMove
		}
		ListByItem []struct {
			WorkspaceID uuid.UUID
			ItemID      uuid.UUID
			Limit       int
		}
	}
	lockCreate     sync.RWMutex
	lockListByItem sync.RWMutex
}

func (mock *moveRepoMock) Create(ctx context.Context, move domain.ItemMove) error {
	if mock.CreateFunc == nil {
		panic("moveRepoMock.CreateFunc: method is nil but moveRepo.Create was just called")
	}
	callInfo := struct{ Move domain.ItemMove }{Move: move}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, move)
}

func (mock *moveRepoMock) CreateCalls() []struct{ Move domain.ItemMove } {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *moveRepoMock) ListByItem(ctx context.Context, workspaceID, itemID uuid.UUID, limit int) ([]domain.ItemMove, error) {
	if mock.ListByItemFunc == nil {
		panic("moveRepoMock.ListByItemFunc: method is nil but moveRepo.ListByItem was just called")
	}
	callInfo := struct {
		WorkspaceID uuid.UUID
		ItemID      uuid.UUID
		Limit       int
	}{WorkspaceID: workspaceID, ItemID: itemID, Limit: limit}
	mock.lockListByItem.Lock()
	mock.calls.ListByItem = append(mock.calls.ListByItem, callInfo)
	mock.lockListByItem.Unlock()
	return mock.ListByItemFunc(ctx, workspaceID, itemID, limit)
}

func (mock *moveRepoMock) ListByItemCalls() []struct {
	WorkspaceID uuid.UUID
	ItemID      uuid.UUID
	Limit       int
} {
	mock.lockListByItem.RLock()
	calls := mock.calls.ListByItem
	mock.lockListByItem.RUnlock()
	return calls
}

var _ txManager = &txManagerMock{}

// txManagerMock runs the callback inline, without a database.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct{}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, struct{}{})
	mock.lockRunInTx.Unlock()
	if mock.RunInTxFunc != nil {
		return mock.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

func (mock *txManagerMock) RunInTxCalls() []struct{} {
	mock.lockRunInTx.RLock()
	calls := mock.calls.RunInTx
	mock.lockRunInTx.RUnlock()
	return calls
}
