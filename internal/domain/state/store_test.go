package state

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type captureSink struct {
	mu      sync.Mutex
	notices []Notice
}

func (c *captureSink) Publish(n Notice) {
	c.mu.Lock()
	c.notices = append(c.notices, n)
	c.mu.Unlock()
}

func newTestStore() *Store {
	return NewStore(Fixture(), func() time.Time { return testNow })
}

func TestStoreSnapshotIsolation(t *testing.T) {
	st := newTestStore()
	snap := st.Snapshot()
	snap.Inventory[0].StockLevel = 0

	if st.Snapshot().Inventory[0].StockLevel != 15 {
		t.Error("mutating a returned snapshot leaked into the store")
	}
}

func TestStoreAddAndNotices(t *testing.T) {
	st := newTestStore()
	sink := &captureSink{}
	st.SetNoticeSink(sink)

	var ops []string
	st.SetMutationObserver(func(op string) { ops = append(ops, op) })

	created, err := st.AddInventoryItem(InventoryItem{Name: "Ondansetron 4mg", StockLevel: 60, CriticalThreshold: 15, CostPerUnit: 18, Location: "Ward Floor", Category: "Tablet"})
	if err != nil {
		t.Fatalf("AddInventoryItem: %v", err)
	}
	if created.ID != "M9" {
		t.Errorf("id = %s", created.ID)
	}
	if len(sink.notices) != 1 || sink.notices[0].Message != "Resource Added: Ondansetron 4mg" {
		t.Errorf("notices = %+v", sink.notices)
	}
	if len(ops) != 1 || ops[0] != "add_inventory_item" {
		t.Errorf("observed ops = %v", ops)
	}
}

func TestStoreFailedMutationLeavesStateAndSinkUntouched(t *testing.T) {
	st := newTestStore()
	sink := &captureSink{}
	st.SetNoticeSink(sink)

	_, err := st.AddInventoryItem(InventoryItem{Name: ""})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v", err)
	}
	if len(sink.notices) != 0 {
		t.Errorf("failed mutation published notices: %+v", sink.notices)
	}
	if len(st.Snapshot().Inventory) != 8 {
		t.Error("failed mutation changed state")
	}
}

func TestStoreFulfillmentFlow(t *testing.T) {
	st := newTestStore()

	req, err := st.CreateMedicationRequest("P2", "Jane Smith", []RequestItem{
		{MedicineID: "7", MedicineName: "Diazepam 5mg", Quantity: 20},
	})
	if err != nil {
		t.Fatalf("CreateMedicationRequest: %v", err)
	}
	if req.Status != RequestPending {
		t.Errorf("status = %s", req.Status)
	}

	bill := &Bill{ID: "INV-55001", PatientID: "P2", PatientName: "Jane Smith", GrandTotal: 283.2}
	if err := st.CompleteMedicationRequest(req.ID, bill, false); err != nil {
		t.Fatalf("CompleteMedicationRequest: %v", err)
	}

	snap := st.Snapshot()
	if snap.FindInventory("7").StockLevel != 100 {
		t.Errorf("stock = %d, want 100", snap.FindInventory("7").StockLevel)
	}
	if snap.Bills[0].ID != "INV-55001" {
		t.Errorf("bills[0] = %s", snap.Bills[0].ID)
	}
	if snap.FindRequest(req.ID).Status != RequestCompleted {
		t.Errorf("request status = %s", snap.FindRequest(req.ID).Status)
	}
}

func TestStoreOrderLifecycle(t *testing.T) {
	st := newTestStore()

	order, err := st.RaisePurchaseOrder("Heparin Sodium", 40, "Global Bio-Med Supplies", "Medium", 84000)
	if err != nil {
		t.Fatalf("RaisePurchaseOrder: %v", err)
	}
	if err := st.AuthorizeOrder(order.ID, "authorize"); err != nil {
		t.Fatalf("AuthorizeOrder: %v", err)
	}
	// Idempotent repeat.
	if err := st.AuthorizeOrder(order.ID, "authorize"); err != nil {
		t.Fatalf("repeat AuthorizeOrder: %v", err)
	}
	if err := st.AuthorizeOrder(order.ID, "cancel"); !errors.Is(err, ErrConflict) {
		t.Errorf("cancel after authorize: err = %v", err)
	}
}

func TestStoreReset(t *testing.T) {
	st := newTestStore()
	if err := st.DeleteBill("BILL-001"); err != nil {
		t.Fatalf("DeleteBill: %v", err)
	}
	st.Reset(Fixture())
	if len(st.Snapshot().Bills) != 2 {
		t.Error("reset did not restore the fixture")
	}
}

func TestStoreConcurrentMutations(t *testing.T) {
	st := newTestStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.AddVendor(Vendor{Name: "Vendor", Contact: "+91-1", PerformanceRating: 3})
			_ = st.Snapshot()
		}()
	}
	wg.Wait()
	if got := len(st.Snapshot().Vendors); got != 23 {
		t.Errorf("vendors = %d, want 23", got)
	}
}
