package abc_test

import (
	"math"
	"testing"

	"github.com/avm2run/avm2/abc"
)

// buildMinimalABC constructs the smallest ABC byte range that decodes to
// a single script whose initializer method is the only method, with a
// code body of a single returnvoid and no traits anywhere — enough to exercise the
// top-level layout without needing real instructions.
func buildMinimalABC(t *testing.T) []byte {
	t.Helper()
	var b []byte
	putU16 := func(v uint16) { b = append(b, byte(v), byte(v>>8)) }
	putVarU30 := func(v uint32) {
		for {
			c := byte(v & 0x7F)
			v >>= 7
			if v != 0 {
				b = append(b, c|0x80)
			} else {
				b = append(b, c)
				break
			}
		}
	}

	putU16(16) // minor
	putU16(46) // major

	// constant pool: all seven tables empty (count 0)
	for i := 0; i < 7; i++ {
		putVarU30(0)
	}

	// methods: 1 method, param_count=0, return_type=0, name=0, flags=0
	putVarU30(1)
	putVarU30(0) // param_count
	putVarU30(0) // return type index
	putVarU30(0) // name index
	b = append(b, 0) // flags

	// metadata: 0
	putVarU30(0)

	// class_count: 0
	putVarU30(0)
	// instances[0], classes[0]: none

	// scripts: 1, init_index=0, traits: 0
	putVarU30(1)
	putVarU30(0) // init index
	putVarU30(0) // traits count

	// method_bodies: 1, method_index=0, max_stack=1, local_count=1,
	// init_scope_depth=0, max_scope_depth=1, code: [returnvoid=0x47],
	// exceptions: 0, traits: 0
	putVarU30(1)
	putVarU30(0) // method index
	putVarU30(1) // max stack
	putVarU30(1) // local count
	putVarU30(0) // init scope depth
	putVarU30(1) // max scope depth
	putVarU30(1) // code length
	b = append(b, 0x47)
	putVarU30(0) // exceptions
	putVarU30(0) // traits

	return b
}

func TestDecodeMinimalFile(t *testing.T) {
	data := buildMinimalABC(t)
	f, err := abc.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.MinorVersion != 16 || f.MajorVersion != 46 {
		t.Errorf("version = %d.%d, want 16.46", f.MinorVersion, f.MajorVersion)
	}
	if len(f.Methods) != 1 {
		t.Fatalf("methods = %d, want 1", len(f.Methods))
	}
	if len(f.Scripts) != 1 {
		t.Fatalf("scripts = %d, want 1", len(f.Scripts))
	}
	if len(f.MethodBodies) != 1 {
		t.Fatalf("method bodies = %d, want 1", len(f.MethodBodies))
	}
	if len(f.MethodBodies[0].Code) != 1 || f.MethodBodies[0].Code[0] != 0x47 {
		t.Errorf("code = %v, want [0x47]", f.MethodBodies[0].Code)
	}
}

func TestConstantPoolSentinelDefaults(t *testing.T) {
	pool := &abc.ConstantPool{}
	if got := pool.Int(0); got != 0 {
		t.Errorf("Int(0) = %d, want 0", got)
	}
	if got := pool.UInt(0); got != 0 {
		t.Errorf("UInt(0) = %d, want 0", got)
	}
	if got := pool.Double(0); !math.IsNaN(got) {
		t.Errorf("Double(0) = %v, want NaN", got)
	}
	if got := pool.String(0); got != abc.AnyName {
		t.Errorf("String(0) = %q, want %q", got, abc.AnyName)
	}
}

func TestDecodeTruncated(t *testing.T) {
	if _, err := abc.Decode([]byte{0x01}); err == nil {
		t.Fatal("expected decode error for truncated input")
	}
}
