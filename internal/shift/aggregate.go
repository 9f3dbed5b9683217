// Package shift computes the dashboard view over work orders and
// containers. Everything here is pure: inputs are read-only, there is no
// state across calls, and recomputing per render is cheap at the expected
// scale (low hundreds of records).
package shift

import (
	"strconv"

	"shiftboard/internal/models"
)

// Summary holds the top-level totals for a (building, shift) selection.
type Summary struct {
	TotalContainers int     `json:"total_containers"`
	TotalPieces     int     `json:"total_pieces"`
	TotalPay        float64 `json:"total_pay"`
}

// Result is the filtered view for one (building, shift) pair.
type Result struct {
	WorkOrders []models.WorkOrder `json:"work_orders"`
	Containers []models.Container `json:"containers"`
	Summary    Summary            `json:"summary"`
}

// Figures are the per-work-order display numbers. They are re-derived from
// the order's own container ids against the FULL container collection, not
// the filtered one; both computations agree when every referenced id
// exists.
type Figures struct {
	Containers int     `json:"containers"`
	Pieces     int     `json:"pieces"`
	Pay        float64 `json:"pay"`
}

// Aggregate filters work orders by exact (building, shift) match, joins
// their referenced containers and sums the totals. Container ids that are
// referenced but missing from the collection are silently dropped
// (tolerant join; dangling references are normal, not an error).
func Aggregate(orders []models.WorkOrder, containers []models.Container, building, shift string) Result {
	var res Result
	res.WorkOrders = make([]models.WorkOrder, 0)
	res.Containers = make([]models.Container, 0)

	referenced := make(map[string]struct{})
	for _, wo := range orders {
		if wo.Building != building || wo.Shift != shift {
			continue
		}
		res.WorkOrders = append(res.WorkOrders, wo)
		for _, cid := range wo.ContainerIDs {
			referenced[cid] = struct{}{}
		}
	}

	for _, c := range containers {
		if _, ok := referenced[c.ID]; !ok {
			continue
		}
		res.Containers = append(res.Containers, c)
		res.Summary.TotalContainers++
		res.Summary.TotalPieces += c.PiecesTotal
		res.Summary.TotalPay += c.ContainerPay
	}
	return res
}

// OrderFigures recomputes one work order's row numbers against the full
// container collection.
func OrderFigures(wo models.WorkOrder, containers []models.Container) Figures {
	byID := make(map[string]models.Container, len(containers))
	for _, c := range containers {
		byID[c.ID] = c
	}
	var f Figures
	seen := make(map[string]struct{}, len(wo.ContainerIDs))
	for _, cid := range wo.ContainerIDs {
		if _, dup := seen[cid]; dup {
			continue
		}
		seen[cid] = struct{}{}
		c, ok := byID[cid]
		if !ok {
			continue
		}
		f.Containers++
		f.Pieces += c.PiecesTotal
		f.Pay += c.ContainerPay
	}
	return f
}

// FormatPay renders a monetary value with exactly two decimal places.
func FormatPay(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
