package state

import "time"

// Fixture returns a fresh copy of the seed snapshot used to initialize the
// store at process start: 8 inventory items, 8 staff, 5 doctors, 6 patients,
// 3 vendors, 1 order, 2 bills, and 1 flagged request. The dataset is dated
// around 2024-03-22; analytics tests pin their clock there.
func Fixture() Snapshot {
	return Snapshot{
		Inventory: []InventoryItem{
			{ID: "1", Name: "Insulin Glargine", BatchID: "BT-001", StockLevel: 15, CriticalThreshold: 50, ExpiryDate: date(2024, 12, 15), CostPerUnit: 1250.00, Location: "Central Pharmacy", LastUsed: "2024-03-20", Category: "Vial"},
			{ID: "2", Name: "Paracetamol 500mg", BatchID: "BT-002", StockLevel: 500, CriticalThreshold: 100, ExpiryDate: date(2025, 12, 1), CostPerUnit: 5.50, Location: "Ward Floor", LastUsed: "2024-03-21", Category: "Tablet"},
			{ID: "3", Name: "Amoxicillin 250mg", BatchID: "BT-003", StockLevel: 25, CriticalThreshold: 40, ExpiryDate: date(2024, 3, 25), CostPerUnit: 45.00, Location: "Central Pharmacy", LastUsed: "2024-03-15", Category: "Tablet"},
			{ID: "4", Name: "Morphine Sulfate", BatchID: "BT-013", StockLevel: 12, CriticalThreshold: 10, ExpiryDate: date(2024, 4, 15), CostPerUnit: 850.00, Location: "Emergency Depot", LastUsed: "2023-10-01", Category: "Infusion"},
			{ID: "5", Name: "Salbutamol Inhaler", BatchID: "BT-005", StockLevel: 4, CriticalThreshold: 20, ExpiryDate: date(2024, 8, 25), CostPerUnit: 320.00, Location: "Central Pharmacy", LastUsed: "2024-03-10", Category: "Infusion"},
			{ID: "6", Name: "Adrenaline 1:1000", BatchID: "BT-099", StockLevel: 80, CriticalThreshold: 20, ExpiryDate: date(2025, 1, 1), CostPerUnit: 150.00, Location: "Emergency Depot", LastUsed: "2024-02-01", Category: "Vial"},
			{ID: "7", Name: "Diazepam 5mg", BatchID: "BT-104", StockLevel: 120, CriticalThreshold: 50, ExpiryDate: date(2025, 8, 20), CostPerUnit: 12.00, Location: "Central Pharmacy", LastUsed: "2024-03-10", Category: "Tablet"},
			{ID: "8", Name: "Heparin Sodium", BatchID: "BT-202", StockLevel: 30, CriticalThreshold: 25, ExpiryDate: date(2024, 11, 15), CostPerUnit: 2100.00, Location: "Emergency Depot", LastUsed: "2024-03-01", Category: "Vial"},
		},
		Staff: []StaffMember{
			{ID: "S1", Name: "Alice Wong", Role: "Nurse", Shift: "Day", Status: "On Duty"},
			{ID: "S2", Name: "Robert Vance", Role: "Pharmacist", Shift: "Day", Status: "On Duty"},
			{ID: "S3", Name: "Clara Oswald", Role: "Receptionist", Shift: "Evening", Status: "On Duty"},
			{ID: "S4", Name: "Marcus Aurelius", Role: "Admin", Shift: "Day", Status: "On Duty"},
			{ID: "S5", Name: "Sarah Connor", Role: "Nurse", Shift: "Night", Status: "On Duty"},
			{ID: "S6", Name: "James Holden", Role: "Pharmacist", Shift: "Evening", Status: "Off Duty"},
			{ID: "S7", Name: "Ellen Ripley", Role: "Nurse", Shift: "Day", Status: "On Duty"},
			{ID: "S8", Name: "Arthur Curry", Role: "Receptionist", Shift: "Night", Status: "Off Duty"},
		},
		Vendors: []Vendor{
			{ID: "V1", Name: "Apex Pharma India", Contact: "+91-9876543210", PerformanceRating: 4.8},
			{ID: "V2", Name: "Global Bio-Med Supplies", Contact: "+91-8888877777", PerformanceRating: 4.2},
			{ID: "V3", Name: "Nexus Clinical Logistics", Contact: "+91-7766554433", PerformanceRating: 4.5},
		},
		Orders: []PurchaseOrder{
			{ID: "PO-900", ItemName: "Insulin Glargine", Quantity: 200, VendorName: "Apex Pharma India", Status: OrderPending, OrderDate: date(2024, 3, 18), Cost: 250000, Priority: "High", RequestedBy: "System"},
		},
		Doctors: []Doctor{
			{ID: "D1", Name: "Dr. Sarah Jenkins", Specialization: "Endocrinology", Status: "On Duty", PatientLoad: 3},
			{ID: "D2", Name: "Dr. Michael Chen", Specialization: "Cardiology", Status: "In Surgery", PatientLoad: 5},
			{ID: "D3", Name: "Dr. Elena Rodriguez", Specialization: "Pediatrics", Status: "On Leave", PatientLoad: 2},
			{ID: "D4", Name: "Dr. Gregory House", Specialization: "Diagnostics", Status: "On Duty", PatientLoad: 1},
			{ID: "D5", Name: "Dr. James Wilson", Specialization: "Oncology", Status: "On Duty", PatientLoad: 4},
		},
		Patients: []Patient{
			{ID: "P1", Name: "John Doe", Age: 45, AssignedDoctorID: "D1", Diagnosis: "Type 2 Diabetes", BedNumber: "101-A", MedicationHistory: []MedicationLog{
				{MedicineName: "Metformin", Quantity: 1, Timestamp: time.Date(2024, 3, 21, 8, 0, 0, 0, time.UTC), AdministeredBy: "Nurse Alice"},
			}},
			{ID: "P2", Name: "Jane Smith", Age: 62, AssignedDoctorID: "D2", Diagnosis: "Hypertension", BedNumber: "204-B", MedicationHistory: []MedicationLog{}},
			{ID: "P3", Name: "Arthur Dent", Age: 42, AssignedDoctorID: "D4", Diagnosis: "Space Sickness", BedNumber: "420-Z", MedicationHistory: []MedicationLog{}},
			{ID: "P4", Name: "Eleanor Rigby", Age: 78, AssignedDoctorID: "D5", Diagnosis: "Osteoarthritis", BedNumber: "305-C", MedicationHistory: []MedicationLog{}},
			{ID: "P5", Name: "Burt Macklin", Age: 34, AssignedDoctorID: "D2", Diagnosis: "Cardiac Arrhythmia", BedNumber: "ICU-01", MedicationHistory: []MedicationLog{}},
			{ID: "P6", Name: "Leslie Knope", Age: 40, AssignedDoctorID: "D1", Diagnosis: "Metabolic Syndrome", BedNumber: "202-A", MedicationHistory: []MedicationLog{}},
		},
		Bills: []Bill{
			{ID: "BILL-001", PatientID: "P1", PatientName: "John Doe", DoctorName: "Dr. Sarah Jenkins", Date: date(2024, 3, 20), Items: []BillItem{{Name: "Insulin", Quantity: 1, UnitPrice: 1250, Total: 1250}}, Subtotal: 1250, GST: 225, GrandTotal: 1475},
			{ID: "BILL-002", PatientID: "P2", PatientName: "Jane Smith", DoctorName: "Dr. Michael Chen", Date: date(2024, 3, 19), Items: []BillItem{{Name: "Aspirin", Quantity: 2, UnitPrice: 10, Total: 20}}, Subtotal: 20, GST: 3.6, GrandTotal: 23.6},
		},
		Requests: []MedicationRequest{
			{ID: "REQ-FLAG-01", PatientID: "P1", PatientName: "John Doe", Items: []RequestItem{{MedicineID: "1", MedicineName: "Insulin", Quantity: 50}}, RequestedAt: time.Date(2024, 3, 22, 9, 0, 0, 0, time.UTC), Status: RequestFlagged, IsOverride: true},
		},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
