package domain

import "strings"

var (
	actions    = []string{ActionAdd, ActionRemove, ActionUpdate, ActionMove, ActionError, ActionInfo}
	types      = []string{ShipmentInbound, ShipmentOutbound}
	statuses   = []string{StatusPending, StatusProcessing, StatusInTransit, StatusCompleted, StatusDelayed}
	priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
)

// canon returns the canonical spelling for a case-insensitive match.
func canon(list []string, s string) (string, bool) {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return v, true
		}
	}
	return "", false
}

func ValidAction(s string) bool { _, ok := canon(actions, s); return ok }

func CanonShipmentType(s string) (string, bool) { return canon(types, s) }
func CanonStatus(s string) (string, bool)       { return canon(statuses, s) }
func CanonPriority(s string) (string, bool)     { return canon(priorities, s) }
