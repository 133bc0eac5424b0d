package schema

import (
	"testing"
	"time"
)

func TestNewPrependsIDField(t *testing.T) {
	s, err := New("users", Field{Name: "name", Kind: KindString})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fields := s.Fields()
	if fields[0].Name != IDField || fields[0].Kind != KindID {
		t.Fatalf("expected implicit leading id field, got %+v", fields[0])
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
}

func TestNewKeepsExplicitID(t *testing.T) {
	s, err := New("users",
		Field{Name: "name", Kind: KindString},
		Field{Name: "id", Kind: KindID},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(s.Fields()) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(s.Fields()))
	}
	if s.Fields()[0].Name != "name" {
		t.Fatalf("explicit id declaration must preserve order, got %q first", s.Fields()[0].Name)
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New("users",
		Field{Name: "name", Kind: KindString},
		Field{Name: "name", Kind: KindString},
	)
	if err == nil {
		t.Fatal("expected duplicate field error")
	}
}

func TestStoredExcludesComputed(t *testing.T) {
	s := MustNew("users",
		Field{Name: "name", Kind: KindString},
		Field{Name: "display", Kind: KindComputed},
	)
	for _, f := range s.Stored() {
		if f.Kind == KindComputed {
			t.Fatalf("Stored returned computed field %q", f.Name)
		}
	}
	if len(s.Stored()) != 2 { // id + name
		t.Fatalf("expected 2 stored fields, got %d", len(s.Stored()))
	}
}

func TestValidateInt(t *testing.T) {
	f := Field{Name: "age", Kind: KindInt, Min: Bound(0), Max: Bound(150)}

	v, err := f.Validate(25)
	if err != nil {
		t.Fatalf("Validate(25): %v", err)
	}
	if v != int64(25) {
		t.Fatalf("expected int64(25), got %T %v", v, v)
	}

	if _, err := f.Validate(200); err == nil {
		t.Fatal("expected max-bound violation")
	}
	if _, err := f.Validate(25.5); err == nil {
		t.Fatal("expected type mismatch for fractional value")
	}
	// A whole float is an int in disguise; JSON decoding produces these.
	if v, err := f.Validate(25.0); err != nil || v != int64(25) {
		t.Fatalf("Validate(25.0) = %v, %v", v, err)
	}
}

func TestValidateRequired(t *testing.T) {
	f := Field{Name: "name", Kind: KindString, Required: true}
	if _, err := f.Validate(nil); err == nil {
		t.Fatal("expected error for nil required value")
	}
}

func TestValidateDefault(t *testing.T) {
	f := Field{Name: "active", Kind: KindBool, Default: true}
	v, err := f.Validate(nil)
	if err != nil {
		t.Fatalf("Validate(nil): %v", err)
	}
	if v != true {
		t.Fatalf("expected default true, got %v", v)
	}
}

func TestValidateEmail(t *testing.T) {
	f := Field{Name: "email", Kind: KindEmail}
	if _, err := f.Validate("ada@example.com"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	for _, bad := range []string{"ada", "ada@", "@example.com", "a b@example.com"} {
		if _, err := f.Validate(bad); err == nil {
			t.Fatalf("expected rejection of %q", bad)
		}
	}
}

func TestValidateDateTimeCanonicalizes(t *testing.T) {
	f := Field{Name: "created", Kind: KindDateTime}
	loc := time.FixedZone("UTC+2", 2*3600)
	in := time.Date(2024, 3, 1, 14, 30, 45, 123456789, loc)

	v, err := f.Validate(in)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	got := v.(time.Time)
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", got.Location())
	}
	if got.Nanosecond() != 0 {
		t.Fatalf("expected whole-second truncation, got %dns", got.Nanosecond())
	}
	if want := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestValidateDateTimeFromString(t *testing.T) {
	f := Field{Name: "created", Kind: KindDateTime}
	v, err := f.Validate("2024-03-01 12:30:45")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	if !v.(time.Time).Equal(want) {
		t.Fatalf("expected %v, got %v", want, v)
	}
}

func TestValidateComputedRejected(t *testing.T) {
	f := Field{Name: "display", Kind: KindComputed}
	if _, err := f.Validate("anything"); err == nil {
		t.Fatal("expected error writing a computed field")
	}
}

func TestValidateStringLengthBounds(t *testing.T) {
	f := Field{Name: "code", Kind: KindString, Min: Bound(2), Max: Bound(4)}
	if _, err := f.Validate("a"); err == nil {
		t.Fatal("expected min-length violation")
	}
	if _, err := f.Validate("abcde"); err == nil {
		t.Fatal("expected max-length violation")
	}
	if _, err := f.Validate("abc"); err != nil {
		t.Fatalf("valid length rejected: %v", err)
	}
}
