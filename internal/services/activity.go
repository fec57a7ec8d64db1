package services

import (
	"strings"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

// ActivityQuery is the read side of the audit trail. All filters arrive as
// parameters; nothing is held between requests.
type ActivityQuery struct {
	Activities *repos.ActivityRepo
}

func NewActivityQuery(activities *repos.ActivityRepo) *ActivityQuery {
	return &ActivityQuery{Activities: activities}
}

func clampCount(count int) int {
	if count <= 0 {
		return 10
	}
	if count > 200 {
		return 200
	}
	return count
}

func (s *ActivityQuery) GetRecent(count int) ([]domain.ActivityLog, error) {
	return s.Activities.Recent(clampCount(count))
}

func (s *ActivityQuery) GetByType(actionType string, count int) ([]domain.ActivityLog, error) {
	return s.Activities.ByType(actionType, clampCount(count))
}

func (s *ActivityQuery) GetByItem(sku string, count int) ([]domain.ActivityLog, error) {
	return s.Activities.ByItem(sku, clampCount(count))
}

func (s *ActivityQuery) GetByUser(userID string, count int) ([]domain.ActivityLog, error) {
	return s.Activities.ByUser(userID, clampCount(count))
}

type ActivityPage struct {
	Logs     []domain.ActivityLog `json:"logs"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
	HasMore  bool                 `json:"hasMore"`
}

func matches(a domain.ActivityLog, needle string) bool {
	return strings.Contains(strings.ToLower(a.Description), needle) ||
		strings.Contains(strings.ToLower(a.ItemSKU), needle) ||
		strings.Contains(strings.ToLower(a.UserName), needle)
}

// SearchAndPaginate fetches one row beyond the requested window so hasMore
// reflects an actually-present record instead of a count heuristic. The
// free-text match runs in memory over description, sku and user name, so
// with searchText set hasMore can still undercount matches past the fetch
// window.
func (s *ActivityQuery) SearchAndPaginate(typeFilter, searchText string, page, pageSize int) (ActivityPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	window := page * pageSize
	logs, err := s.Activities.Window(typeFilter, window+1)
	if err != nil {
		return ActivityPage{}, err
	}

	if searchText != "" {
		needle := strings.ToLower(searchText)
		filtered := logs[:0]
		for _, a := range logs {
			if matches(a, needle) {
				filtered = append(filtered, a)
			}
		}
		logs = filtered
	}

	hasMore := len(logs) > window
	start := (page - 1) * pageSize
	if start > len(logs) {
		start = len(logs)
	}
	end := start + pageSize
	if end > len(logs) {
		end = len(logs)
	}

	return ActivityPage{Logs: logs[start:end], Page: page, PageSize: pageSize, HasMore: hasMore}, nil
}
