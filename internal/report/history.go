package report

import (
	"net/url"
	"sort"
	"strconv"
	"sync"

	"github.com/AngelCh415/outreach-report/internal/models"
)

// History keeps the latest built report per date, queryable over HTTP. One
// logical report per calendar day: a re-run replaces that day's entry.
type History struct {
	mu     sync.RWMutex
	byDate map[string]models.DailyReport
}

func NewHistory() *History {
	return &History{byDate: map[string]models.DailyReport{}}
}

func (h *History) Record(rep models.DailyReport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byDate[rep.Date] = rep
}

func (h *History) Latest(date string) (models.DailyReport, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rep, ok := h.byDate[date]
	return rep, ok
}

// Query filters by inclusive date range with limit/offset paging.
func (h *History) Query(v url.Values) []models.DailyReport {
	from := v.Get("from")
	to := v.Get("to")
	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)

	h.mu.RLock()
	var rows []models.DailyReport
	for date, rep := range h.byDate {
		if from != "" && date < from {
			continue
		}
		if to != "" && date > to {
			continue
		}
		rows = append(rows, rep)
	}
	h.mu.RUnlock()

	// orden determinista
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	limit, offset = clampLimitOffset(limit, offset, len(rows))
	return paginate(rows, limit, offset)
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}
