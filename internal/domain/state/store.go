package state

import (
	"sync"
	"time"
)

// NoticeSink receives the user-facing notices produced by mutations.
type NoticeSink interface {
	Publish(Notice)
}

// Store owns the current snapshot and applies reducer operations to it
// atomically. Reads hand out clones, so callers never observe a partial
// update. The clock is injected for deterministic ids and timestamps in
// tests.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time

	sink     NoticeSink
	observer func(op string)
}

// NewStore creates a Store seeded with the given snapshot. A nil clock
// defaults to time.Now.
func NewStore(seed Snapshot, clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{snap: seed.Clone(), now: clock}
}

// SetNoticeSink attaches an optional sink for mutation notices.
func (st *Store) SetNoticeSink(sink NoticeSink) {
	st.sink = sink
}

// SetMutationObserver attaches an optional callback invoked with the
// operation name of every successful mutation.
func (st *Store) SetMutationObserver(fn func(op string)) {
	st.observer = fn
}

// Snapshot returns a deep copy of the current state.
func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snap.Clone()
}

// Reset replaces the current state with the given snapshot.
func (st *Store) Reset(s Snapshot) {
	st.mu.Lock()
	st.snap = s.Clone()
	st.mu.Unlock()
}

// apply runs a reducer under the write lock and swaps in its result.
func (st *Store) apply(op string, fn func(Snapshot) (Snapshot, []Notice, error)) (Snapshot, error) {
	st.mu.Lock()
	next, notices, err := fn(st.snap)
	if err != nil {
		st.mu.Unlock()
		return Snapshot{}, err
	}
	st.snap = next
	st.mu.Unlock()

	if st.sink != nil {
		for _, n := range notices {
			st.sink.Publish(n)
		}
	}
	if st.observer != nil {
		st.observer(op)
	}
	return next, nil
}

// AddInventoryItem applies the add-item reducer and returns the stored item.
func (st *Store) AddInventoryItem(item InventoryItem) (InventoryItem, error) {
	next, err := st.apply("add_inventory_item", func(s Snapshot) (Snapshot, []Notice, error) {
		return AddInventoryItem(s, item)
	})
	if err != nil {
		return InventoryItem{}, err
	}
	return next.Inventory[len(next.Inventory)-1], nil
}

// AddStaff applies the add-staff reducer and returns the stored member.
func (st *Store) AddStaff(m StaffMember) (StaffMember, error) {
	next, err := st.apply("add_staff", func(s Snapshot) (Snapshot, []Notice, error) {
		return AddStaff(s, m)
	})
	if err != nil {
		return StaffMember{}, err
	}
	return next.Staff[len(next.Staff)-1], nil
}

// AddDoctor applies the add-doctor reducer and returns the stored doctor.
func (st *Store) AddDoctor(d Doctor) (Doctor, error) {
	next, err := st.apply("add_doctor", func(s Snapshot) (Snapshot, []Notice, error) {
		return AddDoctor(s, d)
	})
	if err != nil {
		return Doctor{}, err
	}
	return next.Doctors[len(next.Doctors)-1], nil
}

// AddVendor applies the add-vendor reducer and returns the stored vendor.
func (st *Store) AddVendor(v Vendor) (Vendor, error) {
	next, err := st.apply("add_vendor", func(s Snapshot) (Snapshot, []Notice, error) {
		return AddVendor(s, v)
	})
	if err != nil {
		return Vendor{}, err
	}
	return next.Vendors[len(next.Vendors)-1], nil
}

// AddPatient applies the add-patient reducer and returns the stored patient.
func (st *Store) AddPatient(p Patient) (Patient, error) {
	next, err := st.apply("add_patient", func(s Snapshot) (Snapshot, []Notice, error) {
		return AddPatient(s, p)
	})
	if err != nil {
		return Patient{}, err
	}
	return next.Patients[len(next.Patients)-1], nil
}

// CreateMedicationRequest applies the create-request reducer and returns the
// new request.
func (st *Store) CreateMedicationRequest(patientID, patientName string, items []RequestItem) (MedicationRequest, error) {
	next, err := st.apply("create_request", func(s Snapshot) (Snapshot, []Notice, error) {
		return CreateMedicationRequest(s, patientID, patientName, items, st.now())
	})
	if err != nil {
		return MedicationRequest{}, err
	}
	return next.Requests[0], nil
}

// CompleteMedicationRequest applies the fulfillment reducer.
func (st *Store) CompleteMedicationRequest(reqID string, bill *Bill, emergency bool) error {
	_, err := st.apply("complete_request", func(s Snapshot) (Snapshot, []Notice, error) {
		return CompleteMedicationRequest(s, reqID, bill, emergency, st.now())
	})
	return err
}

// RaisePurchaseOrder applies the raise-order reducer and returns the new
// order.
func (st *Store) RaisePurchaseOrder(itemName string, quantity int, vendorName, priority string, cost float64) (PurchaseOrder, error) {
	next, err := st.apply("raise_order", func(s Snapshot) (Snapshot, []Notice, error) {
		return RaisePurchaseOrder(s, itemName, quantity, vendorName, priority, cost, st.now())
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	return next.Orders[0], nil
}

// AuthorizeOrder applies the authorize/cancel reducer.
func (st *Store) AuthorizeOrder(orderID, action string) error {
	_, err := st.apply("authorize_order", func(s Snapshot) (Snapshot, []Notice, error) {
		return AuthorizeOrder(s, orderID, action)
	})
	return err
}

// DeleteBill applies the delete-bill reducer.
func (st *Store) DeleteBill(billID string) error {
	_, err := st.apply("delete_bill", func(s Snapshot) (Snapshot, []Notice, error) {
		return DeleteBill(s, billID)
	})
	return err
}
