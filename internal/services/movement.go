package services

import (
	"strconv"
	"strings"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

var dayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// MovementService rebuilds the trailing-week inbound/outbound volume chart
// from the current item snapshot. Items parked under a shipment still carry
// that shipment's id as their location, which embeds the movement date.
type MovementService struct {
	Items *repos.ItemRepo
}

func NewMovementService(items *repos.ItemRepo) *MovementService {
	return &MovementService{Items: items}
}

func (s *MovementService) Reconstruct(today time.Time) (domain.MovementSeries, error) {
	items, err := s.Items.List("", "")
	if err != nil {
		return domain.MovementSeries{}, err
	}
	return ReconstructMovement(items, today), nil
}

// ReconstructMovement buckets item quantities into Mon..Sun pairs.
//
// Only locations starting with "IN" or "OU" are movement-relevant. A
// location of at least 16 chars carries a YYYYMMDDHHMMSS stamp at offset 2;
// stamps older than a week (or in the future) exclude the item. Short or
// unparseable locations deliberately fall back to today's bucket so recent
// unstamped stock still shows up.
func ReconstructMovement(items []domain.Item, today time.Time) domain.MovementSeries {
	inbound := make([]int, 7)
	outbound := make([]int, 7)

	todayIdx := (int(today.Weekday()) + 6) % 7 // Monday = 0
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	for _, it := range items {
		var in bool
		switch {
		case strings.HasPrefix(it.Location, "IN"):
			in = true
		case strings.HasPrefix(it.Location, "OU"):
			in = false
		default:
			continue
		}

		bucket := todayIdx
		if len(it.Location) >= 16 {
			if stamp, ok := decodeStamp(it.Location[2:16], today.Location()); ok {
				daysDiff := daysBetween(stamp, todayDate)
				if daysDiff < 0 || daysDiff >= 7 {
					continue
				}
				bucket = (todayIdx - daysDiff + 7) % 7
			}
		}

		if in {
			inbound[bucket] += it.Quantity
		} else {
			outbound[bucket] += it.Quantity
		}
	}

	return domain.MovementSeries{Labels: dayLabels, Inbound: inbound, Outbound: outbound}
}

// daysBetween counts whole calendar days from a to b. Both dates are
// re-anchored in UTC first so a DST transition inside the interval cannot
// shift the count.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

// decodeStamp reads the date half of a YYYYMMDDHHMMSS fragment. Only the
// date matters for bucketing; the time of day is ignored.
func decodeStamp(s string, loc *time.Location) (time.Time, bool) {
	if len(s) < 8 {
		return time.Time{}, false
	}
	year, err1 := strconv.Atoi(s[0:4])
	month, err2 := strconv.Atoi(s[4:6])
	day, err3 := strconv.Atoi(s[6:8])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), true
}
