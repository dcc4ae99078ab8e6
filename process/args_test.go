package process

import "testing"

func TestDecodeArgsPopulatesTypedStruct(t *testing.T) {
	type taperArgs struct {
		Width float64 `yaml:"width"`
		Side  string  `yaml:"side"`
	}
	var got taperArgs
	args := map[string]any{"width": 0.05, "side": "both"}
	if err := decodeArgs(args, &got); err != nil {
		t.Fatalf("decodeArgs: %v", err)
	}
	if got.Width != 0.05 || got.Side != "both" {
		t.Errorf("decodeArgs() = %+v, want width=0.05 side=both", got)
	}
}

func TestDecodeArgsNilIsNoop(t *testing.T) {
	type taperArgs struct {
		Width float64 `yaml:"width"`
	}
	got := taperArgs{Width: 1.5}
	if err := decodeArgs(nil, &got); err != nil {
		t.Fatalf("decodeArgs: %v", err)
	}
	if got.Width != 1.5 {
		t.Errorf("decodeArgs(nil) mutated target to %+v, want unchanged", got)
	}
}
