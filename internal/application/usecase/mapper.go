package usecase

import (
	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
)

func toDealResponse(d model.Deal) dto.DealResponse {
	return dto.DealResponse{
		ID:            d.ID(),
		BuyerID:       d.BuyerID(),
		DealerID:      d.DealerID(),
		BrokerID:      d.BrokerID(),
		VehicleID:     d.VehicleID(),
		AgreedPrice:   d.AgreedPrice(),
		Currency:      d.Currency(),
		PaymentMethod: d.PaymentMethod(),
		PaymentStatus: d.PaymentStatus().String(),
		Status:        d.Status().String(),
		CompletedAt:   d.CompletedAt(),
		CreatedAt:     d.CreatedAt(),
		UpdatedAt:     d.UpdatedAt(),
	}
}

func toMilestoneResponses(milestones []model.PaymentMilestone) []dto.MilestoneResponse {
	out := make([]dto.MilestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, dto.MilestoneResponse{
			ID:         m.ID,
			Type:       m.Type.String(),
			Name:       m.Name,
			Sequence:   m.Sequence,
			AmountDue:  m.AmountDue,
			AmountPaid: m.AmountPaid,
			Currency:   m.Currency,
			DueDate:    m.DueDate,
			Status:     m.Status.String(),
			PaymentIDs: m.PaymentIDs,
		})
	}
	return out
}

func toTermsResponse(t model.FinancialTerms) dto.TermsResponse {
	return dto.TermsResponse{
		ID:               t.ID(),
		DealID:           t.DealID(),
		TotalPrice:       t.TotalPrice(),
		Currency:         t.Currency(),
		DepositPct:       t.DepositPct(),
		DepositAmount:    t.DepositAmount(),
		DepositDueDate:   t.DepositDueDate(),
		DepositPaid:      t.DepositPaid(),
		DepositPaidAt:    t.DepositPaidAt(),
		BalanceRemaining: t.BalanceRemaining(),
		BalanceDueDate:   t.BalanceDueDate(),
		TotalPaid:        t.TotalPaid(),
		IsFinanced:       t.IsFinanced(),
		Milestones:       toMilestoneResponses(t.Milestones()),
		CreatedAt:        t.CreatedAt(),
		UpdatedAt:        t.UpdatedAt(),
	}
}

func toPlanResponse(p model.FinancingPlan) dto.FinancingPlanResponse {
	installments := p.Installments()
	rows := make([]dto.InstallmentResponse, 0, len(installments))
	for _, inst := range installments {
		rows = append(rows, dto.InstallmentResponse{
			Period:           inst.Period,
			DueDate:          inst.DueDate,
			Principal:        inst.Principal,
			Interest:         inst.Interest,
			Total:            inst.Total,
			LateFee:          inst.LateFee,
			AmountPaid:       inst.AmountPaid,
			RemainingBalance: inst.RemainingBalance,
			Status:           inst.Status.String(),
			DaysLate:         inst.DaysLate,
		})
	}
	return dto.FinancingPlanResponse{
		ID:             p.ID(),
		DealID:         p.DealID(),
		FinancingType:  p.FinancingType(),
		Lender:         p.Lender(),
		CreditScore:    p.CreditScore(),
		DownPayment:    p.DownPayment(),
		Principal:      p.Principal(),
		AnnualRatePct:  p.AnnualRatePct(),
		TermMonths:     p.TermMonths(),
		MonthlyPayment: p.MonthlyPayment(),
		TotalInterest:  p.TotalInterest(),
		TotalAmount:    p.Principal().Add(p.TotalInterest()),
		Currency:       p.Currency(),
		Status:         p.Status().String(),
		Installments:   rows,
		CreatedAt:      p.CreatedAt(),
	}
}

func toCommissionResponse(c model.Commission) dto.CommissionResponse {
	return dto.CommissionResponse{
		ID:          c.ID(),
		DealID:      c.DealID(),
		RecipientID: c.RecipientID(),
		Role:        c.Role().String(),
		Amount:      c.Amount(),
		Currency:    c.Currency(),
		AmountUSD:   c.AmountUSD(),
		Percentage:  c.Percentage(),
		Status:      c.Status().String(),
		ApprovedAt:  c.ApprovedAt(),
		PaidAt:      c.PaidAt(),
		CreatedAt:   c.CreatedAt(),
	}
}

func toBonusResponse(b model.BonusTransaction) dto.BonusResponse {
	return dto.BonusResponse{
		ID:        b.ID(),
		UserID:    b.UserID(),
		DealID:    b.DealID(),
		BonusType: b.BonusType().String(),
		Amount:    b.Amount(),
		Currency:  b.Currency(),
		CreatedAt: b.CreatedAt(),
	}
}
