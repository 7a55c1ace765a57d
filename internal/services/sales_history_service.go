package services

import (
	"errors"
	"time"

	"stallpos/internal/domain"
	"stallpos/internal/repos"
)

// SalesHistoryService reads the append-only sales record. Nothing here
// mutates a committed sale.
type SalesHistoryService struct {
	Sales *repos.SaleRepo
}

func NewSalesHistoryService(sales *repos.SaleRepo) *SalesHistoryService {
	return &SalesHistoryService{Sales: sales}
}

// List returns sales within the optional date range, newest first.
func (s *SalesHistoryService) List(from, to time.Time) ([]domain.Sale, error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errors.New("date_from must be before or equal to date_to")
	}
	return s.Sales.ListByDateRange(from, to)
}

type SaleDetail struct {
	Sale  domain.Sale       `json:"sale"`
	Lines []domain.SaleLine `json:"lines"`
}

// Get returns one sale with its lines, or nil if it does not exist.
func (s *SalesHistoryService) Get(saleID string) (*SaleDetail, error) {
	sale, lines, err := s.Sales.Get(saleID)
	if err != nil {
		return nil, err
	}
	if sale.ID == "" {
		return nil, nil
	}
	return &SaleDetail{Sale: sale, Lines: lines}, nil
}

type FinancialSummary struct {
	SaleCount int   `json:"sale_count"`
	Revenue   int64 `json:"revenue"`
	Cost      int64 `json:"cost"`
	Profit    int64 `json:"profit"`
}

// Summary aggregates revenue/cost/profit from the committed snapshots.
func (s *SalesHistoryService) Summary() (FinancialSummary, error) {
	sum, err := s.Sales.Summary()
	if err != nil {
		return FinancialSummary{}, err
	}
	return FinancialSummary{
		SaleCount: sum.SaleCount,
		Revenue:   sum.Revenue,
		Cost:      sum.Cost,
		Profit:    sum.Revenue - sum.Cost,
	}, nil
}
