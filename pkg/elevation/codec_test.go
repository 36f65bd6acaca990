package elevation

import "testing"

func TestCodecRoundTripAllValues(t *testing.T) {
	const slots = 16
	buf := make([]byte, PackedLen(slots))

	for elev := int(Invalid); elev <= MaxEncodable; elev++ {
		// Write into every slot so each bit alignment is covered.
		slot := uint64(elev-int(Invalid)) % slots
		Encode(buf, slot, int16(elev))
		if got := Decode(buf, slot); got != int16(elev) {
			t.Fatalf("slot %d: Decode = %d, want %d", slot, got, elev)
		}
	}
}

func TestCodecNeighboursUntouched(t *testing.T) {
	buf := make([]byte, PackedLen(8))
	for slot := uint64(0); slot < 8; slot++ {
		Encode(buf, slot, int16(100*slot))
	}
	Encode(buf, 3, 8848)

	for slot := uint64(0); slot < 8; slot++ {
		want := int16(100 * slot)
		if slot == 3 {
			want = 8848
		}
		if got := Decode(buf, slot); got != want {
			t.Errorf("slot %d: got %d, want %d", slot, got, want)
		}
	}
}

func TestCodecOutOfRangeStoresInvalid(t *testing.T) {
	buf := make([]byte, PackedLen(2))
	Encode(buf, 1, 500)
	Encode(buf, 1, MaxEncodable+1)
	if got := Decode(buf, 1); got != Invalid {
		t.Errorf("above range: got %d, want %d", got, Invalid)
	}
	Encode(buf, 1, -1001)
	if got := Decode(buf, 1); got != Invalid {
		t.Errorf("below range: got %d, want %d", got, Invalid)
	}
}

func TestZeroBufferDecodesInvalid(t *testing.T) {
	buf := make([]byte, PackedLen(4))
	for slot := uint64(0); slot < 4; slot++ {
		if got := Decode(buf, slot); got != Invalid {
			t.Errorf("slot %d: got %d, want %d", slot, got, Invalid)
		}
	}
}

func BenchmarkEncodeDecode(b *testing.B) {
	buf := make([]byte, PackedLen(1<<16))
	var slot uint64
	for b.Loop() {
		slot = (slot + 7919) & (1<<16 - 1)
		Encode(buf, slot, int16(slot%9000))
		_ = Decode(buf, slot)
	}
}
