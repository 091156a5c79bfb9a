// Package emitter renders a compiled layout as the lrc_config.c text included by the insane
// LRC device-mapper module. The text shape, comment lines included, is what the module was
// built against and is reproduced byte for byte.
package emitter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/scheme"
)

// ConfigFileName is the file the native module includes.
const ConfigFileName = "lrc_config.c"

// Hex renders a byte the way the module sources spell them: 0x prefix, lower case, no padding.
func Hex(b byte) string {
	return fmt.Sprintf("%#x", b)
}

// HexBytes renders every byte with Hex.
func HexBytes(ba []byte) []string {
	r := make([]string, len(ba))
	for i, b := range ba {
		r[i] = Hex(b)
	}
	return r
}

// Array renders a C brace initializer: {a, b, c}.
func Array(items []string) string {
	return "{" + strings.Join(items, ", ") + "}"
}

func ints(v []int) []string {
	r := make([]string, len(v))
	for i, n := range v {
		r[i] = strconv.Itoa(n)
	}
	return r
}

// Render returns the lrc_config.c text of l. The global syndrome variant follows
// l.Options.MultiGlobal.
//
// l must come from scheme.Compile; Render panics on a layout without an empty block, or
// without a global syndrome in single global mode. Write and WriteFile check the layout
// first and return an error instead.
func Render(l *scheme.Layout) []byte {
	var b bytes.Buffer
	c := l.Constants
	globalS := "GLOBAL_S"
	if !l.Options.MultiGlobal {
		globalS = "1"
	}

	fmt.Fprintf(&b, "#define SUBSTRIPES %d\n", c.Substripes)
	fmt.Fprintf(&b, "#define SUBSTRIPE_DATA %d\n", c.SubstripeData)
	fmt.Fprintf(&b, "#define E_BLOCKS %d\n", c.EmptyBlocks)
	if l.Options.MultiGlobal {
		fmt.Fprintf(&b, "#define GLOBAL_S %d\n", c.GlobalSyndromes)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "const unsigned char lrc_scheme[(SUBSTRIPE_DATA + 1) * SUBSTRIPES + E_BLOCKS + %s] =\n", globalS)
	b.WriteString(Array(HexBytes(l.Encoded)) + ";\n")
	b.WriteString("\n")

	b.WriteString("// it is just lrc_scheme without 0xee, 0xff and 0xcN\n")
	b.WriteString("const unsigned char lrc_data[SUBSTRIPE_DATA * SUBSTRIPES] =\n")
	b.WriteString(Array(HexBytes(l.DataSubset)) + ";\n")
	b.WriteString("\n")

	b.WriteString("// it is place of global syndrome\n")
	if l.Options.MultiGlobal {
		b.WriteString("const int lrc_gs[GLOBAL_S] = " + Array(ints(l.GlobalSyndromes)) + ";\n")
	} else {
		fmt.Fprintf(&b, "const int lrc_gs = %d;\n", l.GlobalSyndrome())
	}
	b.WriteString("\n")

	b.WriteString("// places of all local syndromes\n")
	b.WriteString("const int lrc_ls[SUBSTRIPES] = " + Array(ints(l.LocalSyndromes)) + ";\n")

	b.WriteString("// empty place\n")
	fmt.Fprintf(&b, "const int lrc_eb = %d;\n", l.EmptyBlock())

	b.WriteString("// not-data blocks, ordered by increasing\n")
	fmt.Fprintf(&b, "const int lrc_offset[SUBSTRIPES + E_BLOCKS + %s] = %s;\n", globalS, Array(ints(l.OrderedOffsets)))

	b.WriteString("// number of the last data block\n")
	fmt.Fprintf(&b, "const int lrc_ldb = %d;\n", l.LastDataBlock)
	b.WriteString("\n")

	return b.Bytes()
}

// Check reports whether l carries the positions Render indexes.
func Check(l *scheme.Layout) error {
	if l == nil {
		return lrc.Errorf(lrc.InvalidScheme, "layout is nil")
	}
	if len(l.EmptyPositions) != 1 {
		return lrc.Errorf(lrc.InvalidScheme, "layout %q has %d empty blocks, expected 1", l.Descriptor, len(l.EmptyPositions))
	}
	if !l.Options.MultiGlobal && len(l.GlobalSyndromes) != 1 {
		return lrc.Errorf(lrc.InvalidScheme, "single global layout %q has %d global syndromes, expected 1",
			l.Descriptor, len(l.GlobalSyndromes))
	}
	return nil
}

// Write renders l into w.
func Write(w io.Writer, l *scheme.Layout) error {
	if err := Check(l); err != nil {
		return err
	}
	_, err := w.Write(Render(l))
	return err
}

// WriteFile renders l into path atomically: the text goes to a temporary file in the same
// folder which is then renamed over path, so readers never see a partial artifact.
func WriteFile(path string, l *scheme.Layout) error {
	if err := Check(l); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(Render(l)); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
