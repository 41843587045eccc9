package keys

import "github.com/0xTas/FLUTE-WELL/sdk/contracts"

// Wire protocol for the external key actuator. One frame carries one
// command and the affected keys as big-endian 16-bit codes:
//
//	[SOF0][SOF1][LEN][CMD][key hi][key lo]...[CKS]
//
// LEN counts the CMD byte plus the payload, CKS is the XOR of everything
// between the start bytes and itself.
const (
	sof0 = 0xAA
	sof1 = 0x55

	cmdPress      = 0x20
	cmdRelease    = 0x21
	cmdReleaseAll = 0x22
)

// keyFrame is one press or release batch bound for the actuator.
type keyFrame struct {
	cmd  byte
	keys []contracts.KeyID
}

// Encode builds the on-wire representation.
func (f *keyFrame) Encode() []byte {
	payload := make([]byte, 0, 2*len(f.keys))
	for _, k := range f.keys {
		payload = append(payload, byte(k>>8), byte(k))
	}

	length := byte(len(payload) + 1) // +1 for CMD byte
	cks := length ^ f.cmd
	for _, b := range payload {
		cks ^= b
	}

	out := []byte{sof0, sof1, length, f.cmd}
	out = append(out, payload...)
	out = append(out, cks)
	return out
}
