package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSeatAuditor はSeatAuditorのモック
type MockSeatAuditor struct {
	mock.Mock
}

func (m *MockSeatAuditor) CountAvailableSeats(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatAuditor) CountInconsistentSeats(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewAvailabilityAuditor(t *testing.T) {
	mockService := new(MockSeatAuditor)
	interval := 1 * time.Minute

	auditor := NewAvailabilityAuditor(mockService, interval)

	assert.NotNil(t, auditor)
	assert.Equal(t, interval, auditor.interval)
	assert.NotNil(t, auditor.stopCh)
	assert.NotNil(t, auditor.doneCh)
}

func TestAvailabilityAuditor_StopChannels(t *testing.T) {
	mockService := new(MockSeatAuditor)
	auditor := NewAvailabilityAuditor(mockService, 1*time.Second)

	// チャンネルが初期化されていることを確認
	assert.NotNil(t, auditor.stopCh)
	assert.NotNil(t, auditor.doneCh)

	// チャンネルがブロッキングされていないことを確認（送信可能）
	select {
	case <-auditor.stopCh:
		t.Fatal("stopCh should not be closed initially")
	default:
		// 期待通り
	}
}

func TestAvailabilityAuditor_Audit(t *testing.T) {
	t.Run("矛盾がなければ正常に完了する", func(t *testing.T) {
		mockService := new(MockSeatAuditor)
		mockService.On("CountAvailableSeats", mock.Anything).Return(42, nil)
		mockService.On("CountInconsistentSeats", mock.Anything).Return(0, nil)

		auditor := &AvailabilityAuditor{
			seatService: mockService,
			interval:    1 * time.Minute,
			stopCh:      make(chan struct{}),
			doneCh:      make(chan struct{}),
		}

		auditor.audit(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("矛盾を検出しても継続する", func(t *testing.T) {
		mockService := new(MockSeatAuditor)
		mockService.On("CountAvailableSeats", mock.Anything).Return(10, nil)
		mockService.On("CountInconsistentSeats", mock.Anything).Return(3, nil)

		auditor := &AvailabilityAuditor{
			seatService: mockService,
			interval:    1 * time.Minute,
			stopCh:      make(chan struct{}),
			doneCh:      make(chan struct{}),
		}

		// パニックしないことを確認
		auditor.audit(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("空席数の取得に失敗しても継続する", func(t *testing.T) {
		mockService := new(MockSeatAuditor)
		mockService.On("CountAvailableSeats", mock.Anything).Return(0, assert.AnError)

		auditor := &AvailabilityAuditor{
			seatService: mockService,
			interval:    1 * time.Minute,
			stopCh:      make(chan struct{}),
			doneCh:      make(chan struct{}),
		}

		auditor.audit(context.Background())

		// 整合性検査までは進まない
		mockService.AssertNotCalled(t, "CountInconsistentSeats")
	})

	t.Run("整合性検査に失敗しても継続する", func(t *testing.T) {
		mockService := new(MockSeatAuditor)
		mockService.On("CountAvailableSeats", mock.Anything).Return(42, nil)
		mockService.On("CountInconsistentSeats", mock.Anything).Return(0, assert.AnError)

		auditor := &AvailabilityAuditor{
			seatService: mockService,
			interval:    1 * time.Minute,
			stopCh:      make(chan struct{}),
			doneCh:      make(chan struct{}),
		}

		auditor.audit(context.Background())

		mockService.AssertExpectations(t)
	})
}

func TestAvailabilityAuditor_StartStop(t *testing.T) {
	t.Run("開始と停止が正常に動作する", func(t *testing.T) {
		mockService := new(MockSeatAuditor)
		// auditが呼ばれる可能性があるので、任意回数マッチさせる
		mockService.On("CountAvailableSeats", mock.Anything).Return(0, nil).Maybe()
		mockService.On("CountInconsistentSeats", mock.Anything).Return(0, nil).Maybe()

		auditor := NewAvailabilityAuditor(mockService, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// バックグラウンドで開始
		go auditor.Start(ctx)

		// 少し待機
		time.Sleep(120 * time.Millisecond)

		// 停止
		auditor.Stop()

		// Stop後はdoneChがcloseされている
		select {
		case <-auditor.doneCh:
			// 正常に終了
		case <-time.After(1 * time.Second):
			t.Error("auditor did not stop in time")
		}
	})

	t.Run("コンテキストキャンセルで停止する", func(t *testing.T) {
		mockService := new(MockSeatAuditor)
		mockService.On("CountAvailableSeats", mock.Anything).Return(0, nil).Maybe()
		mockService.On("CountInconsistentSeats", mock.Anything).Return(0, nil).Maybe()

		auditor := NewAvailabilityAuditor(mockService, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			auditor.Start(ctx)
			close(done)
		}()

		// 少し待機してからコンテキストをキャンセル
		time.Sleep(80 * time.Millisecond)
		cancel()

		// 終了を待機
		select {
		case <-done:
			// 正常に終了
		case <-time.After(1 * time.Second):
			t.Error("auditor did not stop after context cancel")
		}
	})
}
