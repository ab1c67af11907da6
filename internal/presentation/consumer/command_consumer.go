package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/application/usecase"
	"github.com/anungis437/nzila-eexports-sub001/pkg/kafka"
)

// DealFinanceCommandTopic carries commands from the CRM front office. The
// finance core has no public HTTP business API; upstream services drive it
// through this topic.
const DealFinanceCommandTopic = "deal-finance-commands"

// commandEnvelope wraps every message on the command topic.
type commandEnvelope struct {
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload"`
}

// CommandConsumer dispatches command-topic messages to the use-case layer.
type CommandConsumer struct {
	createDeal       *usecase.CreateDealUseCase
	createTerms      *usecase.CreateTermsUseCase
	attachSchedule   *usecase.AttachScheduleUseCase
	processPayment   *usecase.ProcessPaymentUseCase
	attachFinancing  *usecase.AttachFinancingUseCase
	advanceDeal      *usecase.AdvanceDealUseCase
	completeDeal     *usecase.CompleteDealUseCase
	commissionStatus *usecase.UpdateCommissionStatusUseCase
	waiveMilestone   *usecase.WaiveMilestoneUseCase
	logger           *slog.Logger
}

// NewCommandConsumer wires the dispatcher.
func NewCommandConsumer(
	createDeal *usecase.CreateDealUseCase,
	createTerms *usecase.CreateTermsUseCase,
	attachSchedule *usecase.AttachScheduleUseCase,
	processPayment *usecase.ProcessPaymentUseCase,
	attachFinancing *usecase.AttachFinancingUseCase,
	advanceDeal *usecase.AdvanceDealUseCase,
	completeDeal *usecase.CompleteDealUseCase,
	commissionStatus *usecase.UpdateCommissionStatusUseCase,
	waiveMilestone *usecase.WaiveMilestoneUseCase,
	logger *slog.Logger,
) *CommandConsumer {
	return &CommandConsumer{
		createDeal:       createDeal,
		createTerms:      createTerms,
		attachSchedule:   attachSchedule,
		processPayment:   processPayment,
		attachFinancing:  attachFinancing,
		advanceDeal:      advanceDeal,
		completeDeal:     completeDeal,
		commissionStatus: commissionStatus,
		waiveMilestone:   waiveMilestone,
		logger:           logger,
	}
}

// Handle processes one command message. A malformed envelope or a domain
// rejection is logged and swallowed so the consumer keeps draining; only
// infrastructure failures propagate and trigger redelivery.
func (c *CommandConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	var env commandEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		c.logger.Error("dropping malformed command", "error", err)
		return nil
	}

	result, err := c.dispatch(ctx, env)
	if err != nil {
		c.logger.Error("command rejected",
			"command", env.Command,
			"error", err,
		)
		return nil
	}

	c.logger.Info("command processed", "command", env.Command)
	_ = result
	return nil
}

func (c *CommandConsumer) dispatch(ctx context.Context, env commandEnvelope) (any, error) {
	switch env.Command {
	case "create_deal":
		var req dto.CreateDealRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return c.createDeal.Execute(ctx, req)
	case "create_terms":
		var req dto.CreateTermsRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return c.createTerms.Execute(ctx, req)
	case "attach_schedule":
		var req dto.AttachScheduleRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return c.attachSchedule.Execute(ctx, req)
	case "process_payment":
		var req dto.ProcessPaymentRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return c.processPayment.Execute(ctx, req)
	case "attach_financing":
		var req dto.AttachFinancingRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return c.attachFinancing.Execute(ctx, req)
	case "advance_deal":
		var req dto.AdvanceDealRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return c.advanceDeal.Execute(ctx, req)
	case "complete_deal":
		var req dto.CompleteDealRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return c.completeDeal.Execute(ctx, req)
	case "update_commission_status":
		var req dto.UpdateCommissionStatusRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return c.commissionStatus.Execute(ctx, req)
	case "waive_milestone":
		var req dto.WaiveMilestoneRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return c.waiveMilestone.Execute(ctx, req)
	default:
		return nil, fmt.Errorf("unknown command %q", env.Command)
	}
}
