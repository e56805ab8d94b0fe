package session

import (
	"sync"
	"testing"

	"github.com/finsight-labs/statement-insights/internal/statement"
	"github.com/shopspring/decimal"
)

func testResult() *statement.Result {
	txns := []statement.Transaction{
		{
			Date:      "2024-11-09",
			Merchant:  "Amazon Pay",
			Amount:    decimal.RequireFromString("1299"),
			Direction: statement.DirectionDebit,
			Category:  statement.CategoryShopping,
		},
		{
			Date:      "2024-11-10",
			Merchant:  "John Doe",
			Amount:    decimal.RequireFromString("500"),
			Direction: statement.DirectionCredit,
			Category:  statement.CategoryUncategorized,
		},
	}
	return &statement.Result{
		Transactions:   txns,
		Summary:        statement.Aggregate(txns),
		CandidateCount: 2,
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore()

	created := store.Create("statement.txt")
	if created.ID == "" {
		t.Fatal("Create() returned empty session ID")
	}
	if created.Result != nil {
		t.Error("new session must have no result until SaveResult")
	}

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Filename != "statement.txt" {
		t.Errorf("Filename = %q, want statement.txt", got.Filename)
	}

	if _, err := store.Get("no-such-session"); err == nil {
		t.Error("Get() with unknown ID did not fail")
	}
}

func TestStore_SaveResult(t *testing.T) {
	store := NewStore()
	sess := store.Create("statement.txt")

	if err := store.SaveResult(sess.ID, testResult()); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Result == nil || len(got.Result.Transactions) != 2 {
		t.Errorf("stored result = %+v, want 2 transactions", got.Result)
	}

	if err := store.SaveResult("no-such-session", testResult()); err == nil {
		t.Error("SaveResult() with unknown ID did not fail")
	}
}

func TestStore_SetCategory(t *testing.T) {
	store := NewStore()
	sess := store.Create("statement.txt")
	if err := store.SaveResult(sess.ID, testResult()); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	before, _ := store.Get(sess.ID)

	updated, err := store.SetCategory(sess.ID, 0, statement.CategoryPersonalTransfer)
	if err != nil {
		t.Fatalf("SetCategory() error = %v", err)
	}
	if updated.Result.Transactions[0].Category != statement.CategoryPersonalTransfer {
		t.Errorf("Category = %q, want personal_transfer", updated.Result.Transactions[0].Category)
	}

	// Summary is re-aggregated against the override.
	top := updated.Result.Summary.TopCategories
	if len(top) != 1 || top[0].Category != statement.CategoryPersonalTransfer {
		t.Errorf("TopCategories = %+v, want personal_transfer only", top)
	}

	// Earlier snapshots are unaffected by the override.
	if before.Result.Transactions[0].Category != statement.CategoryShopping {
		t.Errorf("prior snapshot mutated: %+v", before.Result.Transactions[0])
	}

	if _, err := store.SetCategory(sess.ID, 99, statement.CategoryShopping); err == nil {
		t.Error("SetCategory() with out-of-range index did not fail")
	}
	if _, err := store.SetCategory("no-such-session", 0, statement.CategoryShopping); err == nil {
		t.Error("SetCategory() with unknown session did not fail")
	}

	pending := store.Create("pending.txt")
	if _, err := store.SetCategory(pending.ID, 0, statement.CategoryShopping); err == nil {
		t.Error("SetCategory() on a session without a result did not fail")
	}
}

func TestStore_Delete(t *testing.T) {
	store := NewStore()
	sess := store.Create("statement.txt")

	store.Delete(sess.ID)
	if _, err := store.Get(sess.ID); err == nil {
		t.Error("Get() after Delete() did not fail")
	}

	// Idempotent.
	store.Delete(sess.ID)
	store.Delete("never-existed")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()
	sess := store.Create("statement.txt")
	if err := store.SaveResult(sess.ID, testResult()); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Get(sess.ID)
		}()
		go func() {
			defer wg.Done()
			_, _ = store.SetCategory(sess.ID, 0, statement.CategoryDining)
		}()
	}
	wg.Wait()

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get() after concurrent access error = %v", err)
	}
	if got.Result.Transactions[0].Category != statement.CategoryDining {
		t.Errorf("Category = %q, want dining", got.Result.Transactions[0].Category)
	}
}
