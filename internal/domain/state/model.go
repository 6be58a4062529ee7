// Package state holds the hospital-operations domain model: the entity
// shapes, the immutable Snapshot aggregate, and the reducer operations that
// produce new snapshots from typed payloads. All state is in-memory and
// volatile; a process restart resets to the fixture.
package state

import (
	"fmt"
	"time"
)

// LastUsedSentinel marks an inventory item that was added but never dispensed.
const LastUsedSentinel = "Just Added"

// InventoryItem is a single medicine batch tracked by the pharmacy.
type InventoryItem struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	BatchID           string    `json:"batch_id"`
	StockLevel        int       `json:"stock_level"`
	CriticalThreshold int       `json:"critical_threshold"`
	ExpiryDate        time.Time `json:"expiry_date"`
	CostPerUnit       float64   `json:"cost_per_unit"`
	Location          string    `json:"location"`
	LastUsed          string    `json:"last_used"`
	Category          string    `json:"category"`
}

// MedicationLog is one append-only entry in a patient's medication history.
type MedicationLog struct {
	MedicineName   string    `json:"medicine_name"`
	Quantity       int       `json:"quantity"`
	Timestamp      time.Time `json:"timestamp"`
	AdministeredBy string    `json:"administered_by"`
}

// Patient is an admitted patient with an assigned doctor and bed.
type Patient struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Age               int             `json:"age"`
	AssignedDoctorID  string          `json:"assigned_doctor_id"`
	Diagnosis         string          `json:"diagnosis"`
	BedNumber         string          `json:"bed_number"`
	MedicationHistory []MedicationLog `json:"medication_history"`
}

// Doctor is a practicing specialist.
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Status         string `json:"status"`
	PatientLoad    int    `json:"patient_load"`
}

// StaffMember is a non-doctor employee (nurse, pharmacist, admin, reception).
type StaffMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Shift  string `json:"shift"`
	Status string `json:"status"`
}

// Vendor is a supply-chain partner referenced by purchase orders.
type Vendor struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Contact           string  `json:"contact"`
	PerformanceRating float64 `json:"performance_rating"`
}

// Purchase order statuses. Transitions are one-way: an authorized or
// cancelled order never returns to Awaiting Authorization.
const (
	OrderAwaitingAuthorization = "Awaiting Authorization"
	OrderAuthorized            = "Authorized"
	OrderPending               = "Pending"
	OrderReceived              = "Received"
	OrderCancelled             = "Cancelled"
)

// PurchaseOrder is a procurement request raised against a vendor.
type PurchaseOrder struct {
	ID          string    `json:"id"`
	ItemName    string    `json:"item_name"`
	Quantity    int       `json:"quantity"`
	VendorName  string    `json:"vendor_name"`
	Status      string    `json:"status"`
	OrderDate   time.Time `json:"order_date"`
	Cost        float64   `json:"cost"`
	Priority    string    `json:"priority"`
	RequestedBy string    `json:"requested_by"`
}

// Medication request statuses. PENDING is the only non-terminal state; a
// flagged or emergency-stockout request requires explicit human follow-up and
// is never auto-resolved.
const (
	RequestPending           = "PENDING"
	RequestCompleted         = "COMPLETED"
	RequestRejected          = "REJECTED"
	RequestFlagged           = "FLAGGED"
	RequestEmergencyStockout = "EMERGENCY_STOCKOUT"
)

// RequestItem is one resolved medicine line inside a medication request.
type RequestItem struct {
	MedicineID   string `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
	Quantity     int    `json:"quantity"`
}

// MedicationRequest is a front-desk order awaiting pharmacy fulfillment.
type MedicationRequest struct {
	ID          string        `json:"id"`
	PatientID   string        `json:"patient_id"`
	PatientName string        `json:"patient_name"`
	Items       []RequestItem `json:"items"`
	RequestedAt time.Time     `json:"requested_at"`
	Status      string        `json:"status"`
	IsOverride  bool          `json:"is_override,omitempty"`
}

// BillLine is one priced medicine line handed to bill generation.
type BillLine struct {
	MedicineName string  `json:"medicine_name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
}

// BillItem is one line of a generated bill.
type BillItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Bill is a financial record produced at fulfillment time. GrandTotal equals
// Subtotal plus GST by construction of the generator; it is not re-validated.
type Bill struct {
	ID          string     `json:"id"`
	PatientID   string     `json:"patient_id"`
	PatientName string     `json:"patient_name"`
	DoctorName  string     `json:"doctor_name"`
	Date        time.Time  `json:"date"`
	Items       []BillItem `json:"items"`
	Subtotal    float64    `json:"subtotal"`
	GST         float64    `json:"gst"`
	GrandTotal  float64    `json:"grand_total"`
}

// Snapshot is the complete domain state at a point in time. Reducers treat a
// Snapshot as immutable: every mutation clones and returns a new one.
type Snapshot struct {
	Inventory []InventoryItem     `json:"inventory"`
	Patients  []Patient           `json:"patients"`
	Doctors   []Doctor            `json:"doctors"`
	Staff     []StaffMember       `json:"staff"`
	Vendors   []Vendor            `json:"vendors"`
	Orders    []PurchaseOrder     `json:"orders"`
	Requests  []MedicationRequest `json:"requests"`
	Bills     []Bill              `json:"bills"`
}

// Clone deep-copies the snapshot so reducers can replace lists without
// aliasing the previous generation.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Inventory: append([]InventoryItem(nil), s.Inventory...),
		Patients:  make([]Patient, len(s.Patients)),
		Doctors:   append([]Doctor(nil), s.Doctors...),
		Staff:     append([]StaffMember(nil), s.Staff...),
		Vendors:   append([]Vendor(nil), s.Vendors...),
		Orders:    append([]PurchaseOrder(nil), s.Orders...),
		Requests:  make([]MedicationRequest, len(s.Requests)),
		Bills:     make([]Bill, len(s.Bills)),
	}
	for i, p := range s.Patients {
		p.MedicationHistory = append([]MedicationLog(nil), p.MedicationHistory...)
		out.Patients[i] = p
	}
	for i, r := range s.Requests {
		r.Items = append([]RequestItem(nil), r.Items...)
		out.Requests[i] = r
	}
	for i, b := range s.Bills {
		b.Items = append([]BillItem(nil), b.Items...)
		out.Bills[i] = b
	}
	return out
}

// FindInventory returns the inventory item with the given id, or nil.
func (s Snapshot) FindInventory(id string) *InventoryItem {
	for i := range s.Inventory {
		if s.Inventory[i].ID == id {
			return &s.Inventory[i]
		}
	}
	return nil
}

// FindPatient returns the patient with the given id, or nil.
func (s Snapshot) FindPatient(id string) *Patient {
	for i := range s.Patients {
		if s.Patients[i].ID == id {
			return &s.Patients[i]
		}
	}
	return nil
}

// FindDoctor returns the doctor with the given id, or nil.
func (s Snapshot) FindDoctor(id string) *Doctor {
	for i := range s.Doctors {
		if s.Doctors[i].ID == id {
			return &s.Doctors[i]
		}
	}
	return nil
}

// FindRequest returns the medication request with the given id, or nil.
func (s Snapshot) FindRequest(id string) *MedicationRequest {
	for i := range s.Requests {
		if s.Requests[i].ID == id {
			return &s.Requests[i]
		}
	}
	return nil
}

// -- Validation --

var validLocations = map[string]bool{
	"Central Pharmacy": true, "Ward Floor": true, "Emergency Depot": true,
}

var validCategories = map[string]bool{
	"Tablet": true, "Vial": true, "Syringe": true, "Infusion": true,
}

var validStaffRoles = map[string]bool{
	"Nurse": true, "Pharmacist": true, "Admin": true, "Receptionist": true,
}

var validShifts = map[string]bool{
	"Day": true, "Night": true, "Evening": true,
}

var validStaffStatuses = map[string]bool{
	"On Duty": true, "Off Duty": true,
}

var validDoctorStatuses = map[string]bool{
	"On Leave": true, "On Duty": true, "In Surgery": true,
}

var validOrderStatuses = map[string]bool{
	OrderAwaitingAuthorization: true,
	OrderAuthorized:            true,
	OrderPending:               true,
	OrderReceived:              true,
	OrderCancelled:             true,
}

var validPriorities = map[string]bool{
	"High": true, "Medium": true, "Low": true,
}

var validRequestStatuses = map[string]bool{
	RequestPending:           true,
	RequestCompleted:         true,
	RequestRejected:          true,
	RequestFlagged:           true,
	RequestEmergencyStockout: true,
}

func (i *InventoryItem) validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if i.StockLevel < 0 {
		return fmt.Errorf("%w: stock_level must be >= 0", ErrInvalid)
	}
	if i.CostPerUnit < 0 {
		return fmt.Errorf("%w: cost_per_unit must be >= 0", ErrInvalid)
	}
	if i.Location != "" && !validLocations[i.Location] {
		return fmt.Errorf("%w: invalid location: %s", ErrInvalid, i.Location)
	}
	if i.Category != "" && !validCategories[i.Category] {
		return fmt.Errorf("%w: invalid category: %s", ErrInvalid, i.Category)
	}
	return nil
}

func (m *StaffMember) validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if !validStaffRoles[m.Role] {
		return fmt.Errorf("%w: invalid role: %s", ErrInvalid, m.Role)
	}
	if !validShifts[m.Shift] {
		return fmt.Errorf("%w: invalid shift: %s", ErrInvalid, m.Shift)
	}
	if m.Status != "" && !validStaffStatuses[m.Status] {
		return fmt.Errorf("%w: invalid status: %s", ErrInvalid, m.Status)
	}
	return nil
}

func (d *Doctor) validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if d.Status != "" && !validDoctorStatuses[d.Status] {
		return fmt.Errorf("%w: invalid status: %s", ErrInvalid, d.Status)
	}
	return nil
}

func (v *Vendor) validate() error {
	if v.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	return nil
}

func (p *Patient) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if p.Age < 0 {
		return fmt.Errorf("%w: age must be >= 0", ErrInvalid)
	}
	return nil
}
