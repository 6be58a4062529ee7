package state

import (
	"fmt"
	"time"
)

// Notice is a user-facing message produced by a mutation.
type Notice struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Notice severities.
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Reducer operations: each takes the current snapshot and a typed payload and
// returns a new snapshot plus zero or more notices. A returned error means the
// input snapshot is still the current state — no partial updates.

// AddInventoryItem appends a new medicine batch. The id is generated from the
// current item count ("M9" after the eight seeded items) and the last-used
// marker starts at the sentinel value.
func AddInventoryItem(s Snapshot, item InventoryItem) (Snapshot, []Notice, error) {
	if err := item.validate(); err != nil {
		return s, nil, err
	}
	next := s.Clone()
	item.ID = fmt.Sprintf("M%d", len(next.Inventory)+1)
	item.LastUsed = LastUsedSentinel
	next.Inventory = append(next.Inventory, item)
	return next, []Notice{{SeveritySuccess, "Resource Added: " + item.Name}}, nil
}

// AddStaff appends a staff member with a generated "S"-prefixed id.
func AddStaff(s Snapshot, m StaffMember) (Snapshot, []Notice, error) {
	if err := m.validate(); err != nil {
		return s, nil, err
	}
	next := s.Clone()
	m.ID = fmt.Sprintf("S%d", len(next.Staff)+1)
	next.Staff = append(next.Staff, m)
	return next, []Notice{{SeveritySuccess, "Staff Added: " + m.Name}}, nil
}

// AddDoctor appends a doctor with a generated "D"-prefixed id and a zero
// patient load.
func AddDoctor(s Snapshot, d Doctor) (Snapshot, []Notice, error) {
	if err := d.validate(); err != nil {
		return s, nil, err
	}
	next := s.Clone()
	d.ID = fmt.Sprintf("D%d", len(next.Doctors)+1)
	d.PatientLoad = 0
	next.Doctors = append(next.Doctors, d)
	return next, []Notice{{SeveritySuccess, "Specialist Registered: " + d.Name}}, nil
}

// AddVendor appends a vendor with a generated "V"-prefixed id.
func AddVendor(s Snapshot, v Vendor) (Snapshot, []Notice, error) {
	if err := v.validate(); err != nil {
		return s, nil, err
	}
	next := s.Clone()
	v.ID = fmt.Sprintf("V%d", len(next.Vendors)+1)
	next.Vendors = append(next.Vendors, v)
	return next, []Notice{{SeveritySuccess, "Partner Integrated: " + v.Name}}, nil
}

// AddPatient appends a patient with a generated "P"-prefixed id and an empty
// medication history.
func AddPatient(s Snapshot, p Patient) (Snapshot, []Notice, error) {
	if err := p.validate(); err != nil {
		return s, nil, err
	}
	next := s.Clone()
	p.ID = fmt.Sprintf("P%d", len(next.Patients)+1)
	p.MedicationHistory = []MedicationLog{}
	next.Patients = append(next.Patients, p)
	return next, []Notice{{SeveritySuccess, "Patient Intaked: " + p.Name}}, nil
}

// CreateMedicationRequest records a PENDING pharmacy request. Items must
// already be resolved medicine id/name/quantity triples; stock is checked at
// fulfillment time, not here.
func CreateMedicationRequest(s Snapshot, patientID, patientName string, items []RequestItem, now time.Time) (Snapshot, []Notice, error) {
	if len(items) == 0 {
		return s, nil, fmt.Errorf("%w: request needs at least one item", ErrInvalid)
	}
	for _, it := range items {
		if it.MedicineID == "" || it.Quantity <= 0 {
			return s, nil, fmt.Errorf("%w: request item needs medicine_id and positive quantity", ErrInvalid)
		}
	}
	if s.FindPatient(patientID) == nil {
		return s, nil, fmt.Errorf("patient %s: %w", patientID, ErrNotFound)
	}
	next := s.Clone()
	req := MedicationRequest{
		ID:          "REQ-" + timestampSuffix(now),
		PatientID:   patientID,
		PatientName: patientName,
		Items:       append([]RequestItem(nil), items...),
		RequestedAt: now,
		Status:      RequestPending,
	}
	next.Requests = append([]MedicationRequest{req}, next.Requests...)
	return next, []Notice{{SeverityWarning, "Request Sent to Pharmacy"}}, nil
}

// CompleteMedicationRequest finalizes a pending request. With emergency set,
// the request is flagged EMERGENCY_STOCKOUT and neither inventory nor bills
// are touched; escalation (a purchase order) is a separate explicit step.
// Otherwise each requested line is deducted from stock, the supplied bill (if
// any) is prepended to the registry, and the request becomes COMPLETED. A nil
// bill still completes the request: stock is committed without a financial
// record when bill synthesis failed, an accepted risk of the assistant
// integration.
func CompleteMedicationRequest(s Snapshot, reqID string, bill *Bill, emergency bool, now time.Time) (Snapshot, []Notice, error) {
	req := s.FindRequest(reqID)
	if req == nil {
		return s, nil, fmt.Errorf("request %s: %w", reqID, ErrNotFound)
	}
	if req.Status != RequestPending && req.Status != RequestFlagged {
		return s, nil, fmt.Errorf("request %s is %s: %w", reqID, req.Status, ErrConflict)
	}

	next := s.Clone()
	if emergency {
		next.FindRequest(reqID).Status = RequestEmergencyStockout
		return next, []Notice{{SeverityError, "Critical Stockout Flagged for " + req.PatientName}}, nil
	}

	for _, line := range req.Items {
		inv := next.FindInventory(line.MedicineID)
		if inv == nil {
			return s, nil, fmt.Errorf("medicine %s: %w", line.MedicineID, ErrNotFound)
		}
		if inv.StockLevel < line.Quantity {
			return s, nil, fmt.Errorf("%s needs %d, have %d: %w", inv.Name, line.Quantity, inv.StockLevel, ErrInsufficientStock)
		}
		inv.StockLevel -= line.Quantity
		inv.LastUsed = now.Format(time.RFC3339)
	}
	if bill != nil {
		next.Bills = append([]Bill{*bill}, next.Bills...)
	}
	next.FindRequest(reqID).Status = RequestCompleted
	return next, []Notice{{SeveritySuccess, "Verified & Fulfilled: " + req.PatientName}}, nil
}

// RaisePurchaseOrder creates a procurement request awaiting admin
// authorization.
func RaisePurchaseOrder(s Snapshot, itemName string, quantity int, vendorName, priority string, cost float64, now time.Time) (Snapshot, []Notice, error) {
	if itemName == "" || quantity <= 0 {
		return s, nil, fmt.Errorf("%w: order needs item_name and positive quantity", ErrInvalid)
	}
	if !validPriorities[priority] {
		return s, nil, fmt.Errorf("%w: invalid priority: %s", ErrInvalid, priority)
	}
	next := s.Clone()
	order := PurchaseOrder{
		ID:          "PO-" + timestampSuffix(now),
		ItemName:    itemName,
		Quantity:    quantity,
		VendorName:  vendorName,
		Status:      OrderAwaitingAuthorization,
		OrderDate:   midnight(now),
		Cost:        cost,
		Priority:    priority,
		RequestedBy: "Pharmacy Terminal",
	}
	next.Orders = append([]PurchaseOrder{order}, next.Orders...)
	return next, []Notice{{SeverityWarning, "PO Request Sent to Admin: " + itemName}}, nil
}

// AuthorizeOrder resolves a purchase order. Transitions are one-way:
// authorize and cancel are terminal, and repeating the action that produced
// the current terminal status is an idempotent no-op.
func AuthorizeOrder(s Snapshot, orderID, action string) (Snapshot, []Notice, error) {
	var target string
	switch action {
	case "authorize":
		target = OrderAuthorized
	case "cancel":
		target = OrderCancelled
	default:
		return s, nil, fmt.Errorf("%w: action must be authorize or cancel", ErrInvalid)
	}

	idx := -1
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}

	current := s.Orders[idx].Status
	if current == target {
		return s, nil, nil // already in the requested terminal state
	}
	if current != OrderAwaitingAuthorization && current != OrderPending {
		return s, nil, fmt.Errorf("order %s is %s: %w", orderID, current, ErrConflict)
	}

	next := s.Clone()
	next.Orders[idx].Status = target
	sev := SeveritySuccess
	if target == OrderCancelled {
		sev = SeverityError
	}
	return next, []Notice{{sev, "Order " + target}}, nil
}

// DeleteBill removes exactly the bill with the matching id.
func DeleteBill(s Snapshot, billID string) (Snapshot, []Notice, error) {
	idx := -1
	for i := range s.Bills {
		if s.Bills[i].ID == billID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, nil, fmt.Errorf("bill %s: %w", billID, ErrNotFound)
	}
	next := s.Clone()
	next.Bills = append(next.Bills[:idx], next.Bills[idx+1:]...)
	return next, []Notice{{SeverityWarning, "Bill " + billID + " removed from registry"}}, nil
}

// timestampSuffix yields the last four digits of the unix-millisecond clock,
// matching the legacy request/order id scheme.
func timestampSuffix(now time.Time) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 4 {
		ms = ms[len(ms)-4:]
	}
	return ms
}

// midnight truncates a timestamp to its calendar day.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
