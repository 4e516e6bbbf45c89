package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/application/allocation"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
)

// MaxSplitParticipants bounds the number of people sharing one purchase.
const MaxSplitParticipants = 20

// SplitExpenseInput represents a purchase paid by Purchase.OwnerID and shared
// equally with ParticipantIDs.
type SplitExpenseInput struct {
	Purchase       ExpenseInput
	ParticipantIDs []uuid.UUID
}

// SplitExpenseOutput represents the output of a split.
type SplitExpenseOutput struct {
	SplitGroupID uuid.UUID
	Expenses     []*entity.ExpenseAggregate // payer first
}

// SplitExpenseUseCase splits one purchase into one expense per participant.
type SplitExpenseUseCase struct {
	uow         adapter.UnitOfWork
	userRepo    adapter.UserRepository
	coordinator *Coordinator
	events      adapter.EventPublisher
}

// NewSplitExpenseUseCase creates a new SplitExpenseUseCase instance.
func NewSplitExpenseUseCase(
	uow adapter.UnitOfWork,
	userRepo adapter.UserRepository,
	coordinator *Coordinator,
	events adapter.EventPublisher,
) *SplitExpenseUseCase {
	return &SplitExpenseUseCase{
		uow:         uow,
		userRepo:    userRepo,
		coordinator: coordinator,
		events:      events,
	}
}

// Execute divides the purchase amount equally between the payer and the
// participants. The payer's share keeps the purchase's payment method, card,
// installments and category; the other shares are recorded as settled cash
// expenses of each participant. All shares are created in one unit of work.
func (uc *SplitExpenseUseCase) Execute(ctx context.Context, input SplitExpenseInput) (*SplitExpenseOutput, error) {
	purchase := input.Purchase.Normalize()
	if err := purchase.Validate(); err != nil {
		return nil, err
	}
	if err := validateParticipants(purchase.OwnerID, input.ParticipantIDs); err != nil {
		return nil, err
	}

	for _, id := range input.ParticipantIDs {
		if _, err := uc.userRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, domainerror.ErrUserNotFound) {
				return nil, domainerror.NewExpenseError(
					domainerror.ErrCodeSplitParticipant,
					fmt.Sprintf("participant %s not found", id),
					domainerror.ErrUserNotFound,
				)
			}
			return nil, fmt.Errorf("failed to find participant: %w", err)
		}
	}

	shares, err := allocation.SplitAmount(purchase.Amount, len(input.ParticipantIDs)+1)
	if err != nil {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidSplit,
			"amount is too small to be split between the participants",
			domainerror.ErrInvalidSplit,
		)
	}

	groupID := uuid.New()
	expenses := make([]*entity.Expense, 0, len(shares))

	payer := entity.NewExpense(
		purchase.OwnerID,
		shares[0],
		purchase.Description,
		purchase.Date,
		purchase.PaymentMethod,
		purchase.InstallmentCount,
		purchase.CategoryID,
		purchase.CardID,
	)
	payer.SplitGroupID = &groupID
	expenses = append(expenses, payer)

	for i, participantID := range input.ParticipantIDs {
		share := entity.NewExpense(
			participantID,
			shares[i+1],
			purchase.Description,
			purchase.Date,
			entity.PaymentMethodCash,
			1,
			nil,
			nil,
		)
		share.SplitGroupID = &groupID
		expenses = append(expenses, share)
	}

	aggregates := make([]*entity.ExpenseAggregate, 0, len(expenses))
	err = uc.uow.Do(ctx, func(repos adapter.Repositories) error {
		aggregates = aggregates[:0]
		for _, e := range expenses {
			aggregate, err := uc.coordinator.Create(ctx, repos, e)
			if err != nil {
				return err
			}
			aggregates = append(aggregates, aggregate)
		}
		return nil
	})
	if err != nil {
		return nil, classify("split", err)
	}

	slog.Info("Expense split",
		"splitGroupID", groupID,
		"payerID", purchase.OwnerID,
		"participants", len(input.ParticipantIDs),
	)
	for _, e := range expenses {
		publish(ctx, uc.events, adapter.ExpenseEventCreated, e)
	}

	return &SplitExpenseOutput{
		SplitGroupID: groupID,
		Expenses:     aggregates,
	}, nil
}

func validateParticipants(payerID uuid.UUID, participantIDs []uuid.UUID) error {
	invalid := func(message string) error {
		return domainerror.NewExpenseError(domainerror.ErrCodeInvalidSplit, message, domainerror.ErrInvalidSplit)
	}

	if len(participantIDs) == 0 {
		return invalid("at least one participant is required")
	}
	if len(participantIDs) > MaxSplitParticipants {
		return invalid(fmt.Sprintf("at most %d participants are allowed", MaxSplitParticipants))
	}

	seen := make(map[uuid.UUID]struct{}, len(participantIDs))
	for _, id := range participantIDs {
		if id == uuid.Nil || id == payerID {
			return invalid("participants must be other users")
		}
		if _, dup := seen[id]; dup {
			return invalid("participants must be distinct")
		}
		seen[id] = struct{}{}
	}
	return nil
}
