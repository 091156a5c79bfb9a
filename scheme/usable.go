package scheme

import (
	"fmt"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/erasure"
)

// CheckUsable reports whether a compiled layout can drive the native module. Compile accepts
// layouts that are syntactically valid but useless, e.g. a stripe without data; this check
// rejects those with an InvalidScheme error naming the first broken rule:
//   - the stripe has a data block and a syndrome,
//   - every data group and every local syndrome index has a matching substripe,
//   - lrc_data and lrc_scheme hold exactly as many entries as the constants declare,
//   - the data and parity block counts form an encodable Reed-Solomon stripe.
func CheckUsable(l *Layout) error {
	if err := checkUsable(l); err != nil {
		return lrc.NewError(lrc.InvalidScheme, err, l.Descriptor)
	}
	return nil
}

func checkUsable(l *Layout) error {
	if l.LastDataBlock == NoDataBlock {
		return fmt.Errorf("scheme has no data block")
	}
	c := l.Constants
	if c.ParityBlocks() == 0 {
		return fmt.Errorf("scheme has no syndrome")
	}
	for _, b := range l.DataSubset {
		if int(b) >= c.Substripes {
			return fmt.Errorf("data block of group %d has no local syndrome, scheme has %d substripes", int(b)+1, c.Substripes)
		}
	}
	for _, p := range l.LocalSyndromes {
		if idx := int(l.Encoded[p] & 0x0F); idx >= c.Substripes {
			return fmt.Errorf("local syndrome %#x at position %d indexes past %d substripes", l.Encoded[p], p, c.Substripes)
		}
	}
	if got, want := len(l.DataSubset), c.DataBlocks(); got != want {
		return fmt.Errorf("lrc_data declares SUBSTRIPE_DATA * SUBSTRIPES = %d entries, scheme has %d data blocks", want, got)
	}
	if got, want := len(l.Encoded), c.StripeBlocks(); got != want {
		return fmt.Errorf("lrc_scheme declares %d entries, scheme has %d blocks", want, got)
	}
	return erasure.CheckGeometry(len(l.DataSubset), c.ParityBlocks())
}
