package disasm

import (
	"testing"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/vm"
)

func TestListingDecodesFixedAndVariableOperands(t *testing.T) {
	code := []byte{
		byte(vm.OpPushByte), 5,
		byte(vm.OpGetLocal), 1,
		byte(vm.OpJump), 0x00, 0x00, 0x00,
		byte(vm.OpReturnVoid),
	}
	body := &abc.MethodBody{Code: code}

	instrs, err := Listing(body)
	if err != nil {
		t.Fatalf("Listing: %v", err)
	}
	if len(instrs) != 4 {
		t.Fatalf("expected 4 instructions, got %d: %+v", len(instrs), instrs)
	}

	if instrs[0].Mnemonic != "pushbyte" || instrs[0].Operands[0] != 5 {
		t.Fatalf("unexpected first instruction: %+v", instrs[0])
	}
	if instrs[1].Offset != 2 || instrs[1].Mnemonic != "getlocal" || instrs[1].Operands[0] != 1 {
		t.Fatalf("unexpected second instruction: %+v", instrs[1])
	}
	if instrs[2].Mnemonic != "jump" || instrs[2].Operands[0] != 0 {
		t.Fatalf("unexpected jump instruction: %+v", instrs[2])
	}
	if instrs[3].Mnemonic != "returnvoid" || len(instrs[3].Operands) != 0 {
		t.Fatalf("unexpected return instruction: %+v", instrs[3])
	}
}

func TestListingDecodesLookupSwitch(t *testing.T) {
	code := []byte{
		byte(vm.OpLookupSwitch),
		0x0a, 0x00, 0x00, // default_offset = 10
		2,                // case_count
		0x01, 0x00, 0x00, // case 0
		0x02, 0x00, 0x00, // case 1
		0x03, 0x00, 0x00, // case 2 (case_count+1 entries)
	}
	body := &abc.MethodBody{Code: code}

	instrs, err := Listing(body)
	if err != nil {
		t.Fatalf("Listing: %v", err)
	}
	if len(instrs) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(instrs))
	}
	// default_offset, case_count, then case_count+1 case offsets.
	if len(instrs[0].Operands) != 5 {
		t.Fatalf("expected 5 operands (default+count+3 cases), got %d: %v", len(instrs[0].Operands), instrs[0].Operands)
	}
	if instrs[0].Operands[0] != 10 || instrs[0].Operands[1] != 2 {
		t.Fatalf("unexpected default/case_count: %v", instrs[0].Operands)
	}
}

func TestListingDecodesDebugInstruction(t *testing.T) {
	code := []byte{
		byte(vm.OpDebug),
		1,    // debug_type
		2,    // name index (u30)
		3,    // register
		0,    // extra (u30)
	}
	body := &abc.MethodBody{Code: code}

	instrs, err := Listing(body)
	if err != nil {
		t.Fatalf("Listing: %v", err)
	}
	if len(instrs) != 1 || len(instrs[0].Operands) != 4 {
		t.Fatalf("expected 1 instruction with 4 operands, got %+v", instrs)
	}
}
