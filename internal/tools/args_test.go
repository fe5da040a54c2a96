package tools

import "testing"

func TestDecodeArgumentsEmptyInputs(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "{}"} {
		args, err := DecodeArguments(raw)
		if err != nil {
			t.Fatalf("DecodeArguments(%q): %v", raw, err)
		}
		if len(args) != 0 {
			t.Fatalf("DecodeArguments(%q) = %v, want empty map", raw, args)
		}
	}
}

func TestDecodeArgumentsObject(t *testing.T) {
	args, err := DecodeArguments(`{"operation":"add","a":1,"b":2}`)
	if err != nil {
		t.Fatalf("DecodeArguments: %v", err)
	}
	if args["operation"] != "add" {
		t.Fatalf("operation = %v", args["operation"])
	}
	if v, ok := args["a"].(float64); !ok || v != 1 {
		t.Fatalf("a = %v (%T), want float64 1", args["a"], args["a"])
	}
}

func TestDecodeArgumentsRejectsMalformedJSON(t *testing.T) {
	for _, raw := range []string{"{", `{"a":}`, "[1,2]", `"str"`} {
		if _, err := DecodeArguments(raw); err == nil {
			t.Fatalf("DecodeArguments(%q): expected error", raw)
		}
	}
}
