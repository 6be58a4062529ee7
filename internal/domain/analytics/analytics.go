// Package analytics derives operational views from a state snapshot. Every
// function is pure and deterministic given identical input and a supplied
// clock, so callers inject "now" rather than reading the wall clock.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/medchain/medchain/internal/domain/state"
)

const dayLayout = "2006-01-02"

// LowStock returns items whose stock level is strictly below their critical
// threshold.
func LowStock(inventory []state.InventoryItem) []state.InventoryItem {
	var out []state.InventoryItem
	for _, it := range inventory {
		if it.StockLevel < it.CriticalThreshold {
			out = append(out, it)
		}
	}
	return out
}

// ExpiringSoon returns items expiring within the next 30 days, exclusive of
// both boundaries: an item expiring today or in exactly 30 days is not
// included.
func ExpiringSoon(inventory []state.InventoryItem, now time.Time) []state.InventoryItem {
	var out []state.InventoryItem
	for _, it := range inventory {
		days := it.ExpiryDate.Sub(now).Hours() / 24
		if days > 0 && days < 30 {
			out = append(out, it)
		}
	}
	return out
}

// Wastage returns items already past their expiry date.
func Wastage(inventory []state.InventoryItem, now time.Time) []state.InventoryItem {
	var out []state.InventoryItem
	for _, it := range inventory {
		if it.ExpiryDate.Before(now) {
			out = append(out, it)
		}
	}
	return out
}

// InventoryValue sums stockLevel * costPerUnit over all items.
func InventoryValue(inventory []state.InventoryItem) float64 {
	var total float64
	for _, it := range inventory {
		total += float64(it.StockLevel) * it.CostPerUnit
	}
	return total
}

// LossValue sums stockLevel * costPerUnit over already-expired items.
func LossValue(wastage []state.InventoryItem) float64 {
	return InventoryValue(wastage)
}

// Deficit is the shortfall between aggregated pending demand and current
// stock for one medicine, with its financial impact.
type Deficit struct {
	MedicineID      string  `json:"medicine_id"`
	Name            string  `json:"name"`
	Needed          int     `json:"needed"`
	Available       int     `json:"available"`
	Deficit         int     `json:"deficit"`
	FinancialImpact float64 `json:"financial_impact"`
}

// Deficits aggregates demand across all PENDING requests, joins it against
// current stock by medicine id, and returns only positive shortfalls sorted
// by descending financial impact. Medicines missing from inventory count as
// zero stock and zero unit cost under the name "Unknown".
func Deficits(requests []state.MedicationRequest, inventory []state.InventoryItem) []Deficit {
	needed := map[string]int{}
	var order []string
	for _, req := range requests {
		if req.Status != state.RequestPending {
			continue
		}
		for _, line := range req.Items {
			if _, seen := needed[line.MedicineID]; !seen {
				order = append(order, line.MedicineID)
			}
			needed[line.MedicineID] += line.Quantity
		}
	}

	byID := map[string]state.InventoryItem{}
	for _, it := range inventory {
		byID[it.ID] = it
	}

	var out []Deficit
	for _, id := range order {
		d := Deficit{MedicineID: id, Name: "Unknown", Needed: needed[id]}
		if inv, ok := byID[id]; ok {
			d.Name = inv.Name
			d.Available = inv.StockLevel
			if gap := d.Needed - d.Available; gap > 0 {
				d.Deficit = gap
				d.FinancialImpact = float64(gap) * inv.CostPerUnit
			}
		} else if d.Needed > 0 {
			d.Deficit = d.Needed
		}
		if d.Deficit > 0 {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinancialImpact > out[j].FinancialImpact
	})
	return out
}

// VendorMetric is a per-vendor order rollup. Orders join to vendors by name;
// the free-text key is a known fragility inherited from the data model, where
// purchase orders record only the vendor's display name.
type VendorMetric struct {
	Name       string  `json:"name"`
	Rating     float64 `json:"rating"`
	OrderCount int     `json:"order_count"`
	TotalValue float64 `json:"total_value"`
}

// VendorMetrics counts and sums the cost of each vendor's orders.
func VendorMetrics(vendors []state.Vendor, orders []state.PurchaseOrder) []VendorMetric {
	out := make([]VendorMetric, 0, len(vendors))
	for _, v := range vendors {
		m := VendorMetric{Name: v.Name, Rating: v.PerformanceRating}
		for _, o := range orders {
			if o.VendorName == v.Name {
				m.OrderCount++
				m.TotalValue += o.Cost
			}
		}
		out = append(out, m)
	}
	return out
}

// Bill window filters.
const (
	WindowAll     = "all"
	WindowWeekly  = "weekly"
	WindowMonthly = "monthly"
	WindowYearly  = "yearly"
)

// BillsInWindow filters bills by a case-insensitive substring match on
// patient name or bill id, then by elapsed days since the bill date:
// weekly <= 7, monthly <= 30, yearly <= 365, boundary day inclusive.
func BillsInWindow(bills []state.Bill, search, window string, now time.Time) []state.Bill {
	search = strings.ToLower(search)
	var out []state.Bill
	for _, b := range bills {
		if search != "" &&
			!strings.Contains(strings.ToLower(b.PatientName), search) &&
			!strings.Contains(strings.ToLower(b.ID), search) {
			continue
		}
		days := now.Sub(b.Date).Hours() / 24
		switch window {
		case WindowWeekly:
			if days > 7 {
				continue
			}
		case WindowMonthly:
			if days > 30 {
				continue
			}
		case WindowYearly:
			if days > 365 {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// DailyConsumption sums the grand totals of bills dated today.
func DailyConsumption(bills []state.Bill, now time.Time) float64 {
	today := now.Format(dayLayout)
	var total float64
	for _, b := range bills {
		if b.Date.Format(dayLayout) == today {
			total += b.GrandTotal
		}
	}
	return total
}

// PendingOrders returns orders still awaiting an admin decision.
func PendingOrders(orders []state.PurchaseOrder) []state.PurchaseOrder {
	var out []state.PurchaseOrder
	for _, o := range orders {
		if o.Status == state.OrderAwaitingAuthorization || o.Status == state.OrderPending {
			out = append(out, o)
		}
	}
	return out
}

// OnDutyStaff returns staff currently on duty.
func OnDutyStaff(staff []state.StaffMember) []state.StaffMember {
	var out []state.StaffMember
	for _, m := range staff {
		if m.Status == "On Duty" {
			out = append(out, m)
		}
	}
	return out
}

// Overview bundles the admin dashboard's derived views into one result.
type Overview struct {
	LowStock         []state.InventoryItem `json:"low_stock"`
	ExpiringSoon     []state.InventoryItem `json:"expiring_soon"`
	Wastage          []state.InventoryItem `json:"wastage"`
	InventoryValue   float64               `json:"inventory_value"`
	LossValue        float64               `json:"loss_value"`
	DailyConsumption float64               `json:"daily_consumption"`
	Deficits         []Deficit             `json:"deficits"`
	VendorMetrics    []VendorMetric        `json:"vendor_metrics"`
	PendingOrders    []state.PurchaseOrder `json:"pending_orders"`
	OnDutyStaff      []state.StaffMember   `json:"on_duty_staff"`
}

// BuildOverview derives the full admin overview from a snapshot.
func BuildOverview(s state.Snapshot, now time.Time) Overview {
	wastage := Wastage(s.Inventory, now)
	return Overview{
		LowStock:         LowStock(s.Inventory),
		ExpiringSoon:     ExpiringSoon(s.Inventory, now),
		Wastage:          wastage,
		InventoryValue:   InventoryValue(s.Inventory),
		LossValue:        LossValue(wastage),
		DailyConsumption: DailyConsumption(s.Bills, now),
		Deficits:         Deficits(s.Requests, s.Inventory),
		VendorMetrics:    VendorMetrics(s.Vendors, s.Orders),
		PendingOrders:    PendingOrders(s.Orders),
		OnDutyStaff:      OnDutyStaff(s.Staff),
	}
}
