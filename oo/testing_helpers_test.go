package oo

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var valueComparer = cmp.Comparer(func(a, b Value) bool { return a.Equal(b) })

func newTestInterp(t *testing.T) *Interp {
	t.Helper()
	interp, err := NewInterp(Config{})
	if err != nil {
		t.Fatalf("NewInterp: %v", err)
	}
	return interp
}

func mustClass(t *testing.T, interp *Interp, name string, supers ...*Object) *Object {
	t.Helper()
	cls, err := interp.CreateClass(name, supers...)
	if err != nil {
		t.Fatalf("create class %s: %v", name, err)
	}
	return cls
}

func mustNew(t *testing.T, cls *Object, name string, args ...Value) *Object {
	t.Helper()
	var (
		val Value
		err error
	)
	if name == "" {
		val, err = cls.Invoke("new", args...)
	} else {
		val, err = cls.Invoke("create", append([]Value{NewString(name)}, args...)...)
	}
	if err != nil {
		t.Fatalf("instantiate %s: %v", cls.Name(), err)
	}
	return val.Object()
}

func mustEval(t *testing.T, interp *Interp, line string) Value {
	t.Helper()
	val, err := interp.Eval(line)
	if err != nil {
		t.Fatalf("eval %q: %v", line, err)
	}
	return val
}

func constMethod(result string) MethodFunc {
	return func(*Call, []Value) (Value, error) { return NewString(result), nil }
}

func requireErrorIs(t *testing.T, err error, target *Error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", strings.Join(target.Code(), " "))
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected %s error, got %v", strings.Join(target.Code(), " "), err)
	}
}

func requireErrorContains(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error containing %q, got %v", want, err)
	}
}

func requireStrings(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(want) == 0 {
		want = nil
	}
	if len(got) == 0 {
		got = nil
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected list (-want +got):\n%s", diff)
	}
}
