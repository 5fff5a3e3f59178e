package user

import (
	"errors"
	"testing"
)

func TestParseUpdate(t *testing.T) {
	u, err := ParseUpdate([]byte(`{"name":"B","user_id":8,"score":1.5,"tags":[1,"x"],"meta":{"n":2}}`))
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}

	if got, ok := u["user_id"].(int64); !ok || got != 8 {
		t.Fatalf("user_id = %#v, want int64(8)", u["user_id"])
	}
	if got, ok := u["score"].(float64); !ok || got != 1.5 {
		t.Fatalf("score = %#v, want 1.5", u["score"])
	}
	if got := u["tags"].([]any)[0]; got != int64(1) {
		t.Fatalf("nested array number = %#v", got)
	}
	if got := u["meta"].(map[string]any)["n"]; got != int64(2) {
		t.Fatalf("nested object number = %#v", got)
	}
}

func TestParseUpdate_Rejects(t *testing.T) {
	if _, err := ParseUpdate([]byte(`[1,2]`)); !errors.Is(err, ErrUpdateNotObject) {
		t.Fatalf("array: got %v", err)
	}
	if _, err := ParseUpdate([]byte(`{bad`)); err == nil {
		t.Fatal("expected syntax error")
	}
	if _, err := ParseUpdate(nil); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestParseUpdate_TrailingData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "garbage", body: `{"name":"B"} trailing garbage`},
		{name: "second_object", body: `{"name":"B"}{"email":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseUpdate([]byte(tt.body)); !errors.Is(err, ErrTrailingData) {
				t.Fatalf("got %v, want ErrTrailingData", err)
			}
		})
	}

	if _, err := ParseUpdate([]byte("{\"name\":\"B\"}\n  ")); err != nil {
		t.Fatalf("trailing whitespace should be accepted: %v", err)
	}
}
