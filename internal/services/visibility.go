package services

import (
	"sort"
	"time"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

// VisibleDrivers decides which drivers a caller may see.
//
// Admins see every driver that has ever pinged. Customers see the drivers
// assigned to their own undelivered orders. Any other role is forbidden.
// Only the input relevant to the caller's role is consulted.
func VisibleDrivers(caller models.Identity, pinged []uint, orders []models.Customer) ([]uint, error) {
	switch caller.Role {
	case models.RoleAdmin:
		return uniqueIDs(pinged), nil
	case models.RoleCustomer:
		var ids []uint
		for _, o := range orders {
			if o.OwnerUserID == nil || *o.OwnerUserID != caller.ID {
				continue
			}
			if !o.Open() || o.DriverID == nil {
				continue
			}
			ids = append(ids, *o.DriverID)
		}
		return uniqueIDs(ids), nil
	default:
		return nil, apperr.Forbidden("role not allowed to view driver locations")
	}
}

// LatestPerDriver keeps, for every candidate driver, its most recent ping
// recorded at or after since. Drivers without such a ping are omitted. The
// result is ordered newest first.
func LatestPerDriver(pings []models.DriverPing, candidates []uint, since time.Time) []models.DriverPing {
	allowed := make(map[uint]struct{}, len(candidates))
	for _, id := range candidates {
		allowed[id] = struct{}{}
	}

	latest := make(map[uint]models.DriverPing)
	for _, p := range pings {
		if _, ok := allowed[p.DriverID]; !ok {
			continue
		}
		if p.RecordedAt.Before(since) {
			continue
		}
		if cur, ok := latest[p.DriverID]; !ok || p.NewerThan(cur.LocationPing) {
			latest[p.DriverID] = p
		}
	}

	out := make([]models.DriverPing, 0, len(latest))
	for _, p := range latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NewerThan(out[j].LocationPing)
	})
	return out
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
