package engine

import (
	"reflect"
	"testing"
)

func TestContext_SetGet(t *testing.T) {
	ctx := NewContext()

	if _, ok := ctx.Get("missing"); ok {
		t.Error("Get should report missing variable")
	}

	ctx.Set("name", "value")
	v, ok := ctx.Get("name")
	if !ok || v != "value" {
		t.Errorf("Get(name) = %v, %v; want value, true", v, ok)
	}

	// Перезапись — молча, последняя запись выигрывает
	ctx.Set("name", 42)
	v, _ = ctx.Get("name")
	if v != 42 {
		t.Errorf("after overwrite Get(name) = %v, want 42", v)
	}
}

func TestContext_PushResultAndPrev(t *testing.T) {
	ctx := NewContext()

	if _, ok := ctx.Prev(); ok {
		t.Error("Prev on empty context should return false")
	}

	ctx.PushResult("first")
	ctx.PushResult("second")
	ctx.PushResult(nil)

	// Prev — последний результат, даже если он nil
	prev, ok := ctx.Prev()
	if !ok {
		t.Fatal("Prev should return true after pushes")
	}
	if prev != nil {
		t.Errorf("Prev = %v, want nil", prev)
	}

	results := ctx.Results()
	want := []any{"first", "second", nil}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("Results = %v, want %v", results, want)
	}
}

func TestContext_Snapshot(t *testing.T) {
	ctx := NewContext()
	ctx.Set("emails", []any{"a", "b"})

	// До первого результата $prev в snapshot отсутствует
	snap := ctx.Snapshot()
	if _, ok := snap[KeyPrev]; ok {
		t.Error("$prev should be absent before any result")
	}
	if _, ok := snap["prev"]; ok {
		t.Error("prev alias should be absent before any result")
	}

	ctx.PushResult(10)
	ctx.PushResult(20)

	snap = ctx.Snapshot()
	if snap[KeyPrev] != 20 || snap["prev"] != 20 {
		t.Errorf("$prev = %v, prev = %v; want 20", snap[KeyPrev], snap["prev"])
	}
	if !reflect.DeepEqual(snap[KeyResults], []any{10, 20}) {
		t.Errorf("$results = %v, want [10 20]", snap[KeyResults])
	}
	if !reflect.DeepEqual(snap["results"], []any{10, 20}) {
		t.Errorf("results alias = %v, want [10 20]", snap["results"])
	}
	if !reflect.DeepEqual(snap["emails"], []any{"a", "b"}) {
		t.Errorf("variables should survive in snapshot: %v", snap["emails"])
	}
}

func TestContext_SnapshotIsCopy(t *testing.T) {
	ctx := NewContext()
	ctx.Set("x", 1)
	ctx.PushResult("r")

	snap := ctx.Snapshot()
	snap["x"] = 999
	snap[KeyResults].([]any)[0] = "mutated"

	if v, _ := ctx.Get("x"); v != 1 {
		t.Error("snapshot mutation should not affect context variables")
	}
	if ctx.Results()[0] != "r" {
		t.Error("snapshot mutation should not affect context history")
	}
}
