package calculator

import (
	"fmt"

	"github.com/mmynk/billsplit/internal/models"
)

// minTransfer is the smallest amount worth paying back.
const minTransfer = 0.01

// Transfers returns who pays the payer back, and how much, in member order.
// Members whose share rounds to nothing are skipped.
func Transfers(payer string, s Settlement) ([]models.Transfer, error) {
	if _, ok := s.Share(payer); !ok {
		return nil, fmt.Errorf("payer '%s' must be one of the members", payer)
	}

	var transfers []models.Transfer
	for _, share := range s.Shares {
		if share.Member == payer || share.Total < minTransfer {
			continue
		}
		transfers = append(transfers, models.Transfer{
			From:   share.Member,
			To:     payer,
			Amount: share.Total,
		})
	}
	return transfers, nil
}
