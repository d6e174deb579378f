package service

import (
	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
	"github.com/mmynk/billsplit/pkg/api"
)

func toAPISettlement(s calculator.Settlement, currency string) *api.Settlement {
	members := make([]*api.MemberShare, len(s.Shares))
	for i, share := range s.Shares {
		orders := share.Orders
		if orders == nil {
			orders = []models.OrderLine{}
		}
		members[i] = &api.MemberShare{
			Member:       share.Member,
			Total:        share.Total,
			ItemsTotal:   share.Breakdown.ItemsTotal,
			Tax:          share.Breakdown.Tax,
			RoundOff:     share.Breakdown.RoundOff,
			Orders:       orders,
			DisplayTotal: money.Format(share.Total, currency),
		}
	}
	return &api.Settlement{
		Currency:        currency,
		Subtotal:        s.Subtotal,
		TaxRate:         s.TaxRate,
		TaxAmount:       s.TaxAmount,
		CalculatedTotal: s.CalculatedTotal,
		GrandTotal:      s.GrandTotal,
		RoundOffAmount:  s.RoundOffAmount,
		TotalAssigned:   s.TotalAssigned,
		Members:         members,
		DisplayTotal:    money.Format(s.GrandTotal, currency),
	}
}

func toAPIValidations(vs []calculator.ItemValidation) []*api.ItemValidation {
	out := make([]*api.ItemValidation, len(vs))
	for i, v := range vs {
		out[i] = &api.ItemValidation{
			ItemID:           v.ItemID,
			Name:             v.Name,
			Required:         v.Required,
			AssignedQuantity: v.AssignedQuantity,
			IsComplete:       v.IsComplete,
		}
	}
	return out
}

func toAPISession(s *models.Session) *api.Session {
	return &api.Session{
		ID:        s.ID,
		Title:     s.Title,
		Snapshot:  s.Snapshot,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
