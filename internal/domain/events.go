package domain

import "time"

// Event types
const (
	EventTypeDepositConfirmed  = "deposit.confirmed"
	EventTypeWithdrawalPaid    = "withdrawal.paid"
	EventTypeTransferCompleted = "transfer.completed"
	EventTypeSwapCompleted     = "swap.completed"
	EventTypeRewardGranted     = "reward.granted"
)

// Aggregate types
const (
	AggregateTypeDeposit    = "deposit"
	AggregateTypeWithdrawal = "withdrawal"
	AggregateTypeTransfer   = "transfer"
	AggregateTypeSwap       = "swap"
	AggregateTypeReward     = "reward"
)

// OutboxEvent is written in the same transaction as the money movement it
// describes and published to the broker asynchronously.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
