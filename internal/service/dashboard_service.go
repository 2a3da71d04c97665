package service

import (
	"context"
	"time"

	"go-branchpos-ws/internal/cache"
	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/repository"
)

const (
	statsCacheTTL = 30 * time.Second

	// weeklyScanLimit caps how much ledger history feeds the weekday chart.
	// The chart is a recent-activity proxy, not a guarantee over arbitrary
	// date ranges.
	weeklyScanLimit = 200
)

// WeeklySeries holds per-weekday quantity sums, indexed Sunday=0 .. Saturday=6.
type WeeklySeries struct {
	In  []int64 `json:"in"`
	Out []int64 `json:"out"`
}

type DashboardService interface {
	GetStats(actor model.Actor) (*repository.DashboardStats, error)
	GetWeeklySeries(actor model.Actor) (*WeeklySeries, error)
	GetLowStock(actor model.Actor) ([]model.Item, error)
}

type dashboardService struct {
	store             repository.Store
	statsCache        cache.StatsCache
	lowStockThreshold int
}

func NewDashboardService(store repository.Store, statsCache cache.StatsCache, lowStockThreshold int) DashboardService {
	return &dashboardService{
		store:             store,
		statsCache:        statsCache,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *dashboardService) GetStats(actor model.Actor) (*repository.DashboardStats, error) {
	ctx := context.Background()
	branchKey := actor.BranchID.String()

	if cached, ok, err := s.statsCache.Get(ctx, branchKey); err == nil && ok {
		return cached, nil
	}

	totalItems, err := s.store.Catalog().CountByBranch(actor.BranchID)
	if err != nil {
		return nil, err
	}
	stockIn, err := s.store.Ledger().SumQuantityByType(actor.BranchID, model.TxIn)
	if err != nil {
		return nil, err
	}
	stockOut, err := s.store.Ledger().SumQuantityByType(actor.BranchID, model.TxOut)
	if err != nil {
		return nil, err
	}
	profit, err := s.store.Ledger().ProfitTotal(actor.BranchID)
	if err != nil {
		return nil, err
	}

	stats := &repository.DashboardStats{
		TotalItems:    totalItems,
		TotalStockIn:  stockIn,
		TotalStockOut: stockOut,
		TotalProfit:   profit,
	}
	s.statsCache.Set(ctx, branchKey, stats, statsCacheTTL)
	return stats, nil
}

func (s *dashboardService) GetWeeklySeries(actor model.Actor) (*WeeklySeries, error) {
	lines, err := s.store.Ledger().RecentLines(actor.BranchID, weeklyScanLimit)
	if err != nil {
		return nil, err
	}

	series := &WeeklySeries{
		In:  make([]int64, 7),
		Out: make([]int64, 7),
	}
	for _, line := range lines {
		weekday := int(line.TransactionDate.Weekday())
		if line.TransactionType == model.TxIn {
			series.In[weekday] += int64(line.Quantity)
		} else {
			series.Out[weekday] += int64(line.Quantity)
		}
	}
	return series, nil
}

func (s *dashboardService) GetLowStock(actor model.Actor) ([]model.Item, error) {
	return s.store.Catalog().LowStock(actor.BranchID, s.lowStockThreshold)
}
