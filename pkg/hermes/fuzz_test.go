package hermes_test

import (
	"testing"

	"github.com/MrWong99/intentbridge/pkg/hermes"
)

func FuzzDecodeIntentMessage(f *testing.F) {
	f.Add([]byte(weatherPayload))
	f.Add([]byte(slotPayload(`{"kind":"Duration","precision":"Exact"}`)))
	f.Add([]byte(slotPayload(`{"kind":"Nope"}`)))
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))

	f.Fuzz(func(t *testing.T, data []byte) {
		msg, err := hermes.DecodeIntentMessage(data)
		if (msg == nil) == (err == nil) {
			t.Fatalf("got (%v, %v): exactly one of message and error must be set", msg, err)
		}
		if msg == nil {
			return
		}
		if msg.Slots == nil {
			t.Fatal("decoded message has nil slots")
		}
		for _, s := range msg.Slots {
			if s.Value == nil || !s.Value.Kind().IsValid() {
				t.Fatalf("slot %q has invalid value %#v", s.SlotName, s.Value)
			}
		}
	})
}
