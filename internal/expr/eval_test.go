package expr

import (
	"testing"

	"github.com/celect/celect/internal/plan"
	"github.com/celect/celect/internal/value"
)

func schemaAgeActive() value.Schema {
	return value.Schema{Fields: []value.Field{
		{Name: "age", Type: value.Int64},
		{Name: "active", Type: value.Bool},
		{Name: "name", Type: value.Utf8},
	}}
}

func batchAgeActive(t *testing.T) *value.Batch {
	t.Helper()
	ages := value.NewColumn(value.Int64, 4)
	ages.SetInt64(0, 10)
	ages.SetInt64(1, 25)
	ages.SetInt64(2, 30)
	ages.Validity.SetInvalid(3) // NULL age at row 3

	active := value.NewColumn(value.Bool, 4)
	active.SetBool(0, false)
	active.SetBool(1, true)
	active.SetBool(2, true)
	active.SetBool(3, false)

	names := value.NewColumn(value.Utf8, 4)
	names.SetString(0, "ada")
	names.SetString(1, "bob")
	names.SetString(2, "carl")
	names.SetString(3, "dana")

	return value.NewBatch(schemaAgeActive(), []*value.Column{ages, active, names}, 4)
}

func TestEvalPredicateNumericComparison(t *testing.T) {
	b := batchAgeActive(t)
	pred := plan.Cmp{Op: plan.Gt, Lhs: plan.ColRef{Index: 0}, Rhs: plan.Lit{Type: value.Int64, I64: 20}}
	rows := EvalPredicate(pred, b)
	if len(rows) != 2 || rows[0] != 1 || rows[1] != 2 {
		t.Fatalf("expected rows [1 2], got %v", rows)
	}
}

func TestEvalPredicateNullRowDropped(t *testing.T) {
	b := batchAgeActive(t)
	// age > 5 is NULL at row 3 since age itself is NULL there.
	pred := plan.Cmp{Op: plan.Gt, Lhs: plan.ColRef{Index: 0}, Rhs: plan.Lit{Type: value.Int64, I64: 5}}
	rows := EvalPredicate(pred, b)
	for _, r := range rows {
		if r == 3 {
			t.Fatal("NULL comparison row must not survive the filter")
		}
	}
}

func TestEvalPredicateAndKleeneLogic(t *testing.T) {
	b := batchAgeActive(t)
	// age > 20 AND active = true: row 1 (25, true) and row 2 (30, true).
	pred := plan.And{
		Lhs: plan.Cmp{Op: plan.Gt, Lhs: plan.ColRef{Index: 0}, Rhs: plan.Lit{Type: value.Int64, I64: 20}},
		Rhs: plan.Cmp{Op: plan.Eq, Lhs: plan.ColRef{Index: 1}, Rhs: plan.Lit{Type: value.Bool, B: true}},
	}
	rows := EvalPredicate(pred, b)
	if len(rows) != 2 || rows[0] != 1 || rows[1] != 2 {
		t.Fatalf("expected rows [1 2], got %v", rows)
	}
}

func TestEvalPredicateOrWithNullOperand(t *testing.T) {
	b := batchAgeActive(t)
	// active = true OR age > 1000: row 3 has active=false and age NULL,
	// so the row must not survive (false OR NULL = NULL).
	pred := plan.Or{
		Lhs: plan.Cmp{Op: plan.Eq, Lhs: plan.ColRef{Index: 1}, Rhs: plan.Lit{Type: value.Bool, B: true}},
		Rhs: plan.Cmp{Op: plan.Gt, Lhs: plan.ColRef{Index: 0}, Rhs: plan.Lit{Type: value.Int64, I64: 1000}},
	}
	rows := EvalPredicate(pred, b)
	for _, r := range rows {
		if r == 3 {
			t.Fatal("false OR NULL must not survive the filter")
		}
	}
	if len(rows) != 2 || rows[0] != 1 || rows[1] != 2 {
		t.Fatalf("expected rows [1 2], got %v", rows)
	}
}

func TestEvalPredicateNotInvertsKnownValues(t *testing.T) {
	b := batchAgeActive(t)
	pred := plan.Not{Inner: plan.Cmp{Op: plan.Eq, Lhs: plan.ColRef{Index: 1}, Rhs: plan.Lit{Type: value.Bool, B: true}}}
	rows := EvalPredicate(pred, b)
	if len(rows) != 2 || rows[0] != 0 || rows[1] != 3 {
		t.Fatalf("expected rows [0 3] (active=false), got %v", rows)
	}
}

func TestEvalPredicateStringComparison(t *testing.T) {
	b := batchAgeActive(t)
	pred := plan.Cmp{Op: plan.Eq, Lhs: plan.ColRef{Index: 2}, Rhs: plan.Lit{Type: value.Utf8, S: "bob"}}
	rows := EvalPredicate(pred, b)
	if len(rows) != 1 || rows[0] != 1 {
		t.Fatalf("expected only row 1, got %v", rows)
	}
}

func TestEvalPredicateMismatchedTypesYieldNull(t *testing.T) {
	b := batchAgeActive(t)
	// Comparing a Utf8 column to a numeric literal has no coercion rule:
	// every row evaluates to NULL and none survive.
	pred := plan.Cmp{Op: plan.Eq, Lhs: plan.ColRef{Index: 2}, Rhs: plan.Lit{Type: value.Int64, I64: 1}}
	rows := EvalPredicate(pred, b)
	if len(rows) != 0 {
		t.Fatalf("expected no rows to survive a mismatched-type comparison, got %v", rows)
	}
}

func TestEvalPredicateRespectsExistingSelection(t *testing.T) {
	b := batchAgeActive(t)
	view := value.WithSelection(b, []int{0, 2})
	pred := plan.Cmp{Op: plan.Gte, Lhs: plan.ColRef{Index: 0}, Rhs: plan.Lit{Type: value.Int64, I64: 0}}
	rows := EvalPredicate(pred, view)
	if len(rows) != 2 || rows[0] != 0 || rows[1] != 2 {
		t.Fatalf("expected rows [0 2] from the pre-existing selection, got %v", rows)
	}
}

func TestFoldConstantTrueAndFalse(t *testing.T) {
	if got := FoldConstant(plan.Lit{Type: value.Bool, B: true}); got != TriTrue {
		t.Fatalf("expected TriTrue, got %v", got)
	}
	if got := FoldConstant(plan.Lit{Type: value.Bool, B: false}); got != TriFalse {
		t.Fatalf("expected TriFalse, got %v", got)
	}
	folded := FoldConstant(plan.Cmp{Op: plan.Eq, Lhs: plan.Lit{Type: value.Int64, I64: 1}, Rhs: plan.Lit{Type: value.Int64, I64: 1}})
	if folded != TriTrue {
		t.Fatalf("expected 1 = 1 to fold to TriTrue, got %v", folded)
	}
}
