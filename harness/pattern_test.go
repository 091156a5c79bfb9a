package harness

import (
	"strings"
	"testing"

	"github.com/sharedcode/lrc"
)

const pattern2 = `# test bench
[devices]
/dev/sdb /dev/sdc /dev/sdd /dev/sde /dev/sdf /dev/sdg /dev/sdh /dev/sdi

[volume]
10G

[block_sizes]
4 8 16

[tests]
# disks algorithm [scheme]
8 raid6
8 lrc scheme=11s122s2eg
8 lrc groups=2 length=2
8 lrc groups=2 length=2 global_s=2
`

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern(strings.NewReader(pattern2))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Devices) != 8 || p.Devices[0] != "/dev/sdb" {
		t.Errorf("got devices %v", p.Devices)
	}
	if p.Volume != (Volume{Size: 10, Unit: 'G'}) {
		t.Errorf("got volume %v", p.Volume)
	}
	if len(p.BlockSizes) != 3 || p.BlockSizes[2] != 16 {
		t.Errorf("got block sizes %v", p.BlockSizes)
	}
	if len(p.Tests) != 4 {
		t.Fatalf("got tests %v", p.Tests)
	}
	plans, err := p.Plans()
	if err != nil {
		t.Fatal(err)
	}
	if plans[0].Kind != NoScheme || plans[1].Kind != ExplicitScheme || plans[2].Kind != SearchedScheme {
		t.Errorf("unexpected plan kinds %v", plans)
	}
	if plans[2].GlobalS != 1 || plans[3].GlobalS != 2 {
		t.Errorf("global_s should default to 1, got %d and %d", plans[2].GlobalS, plans[3].GlobalS)
	}
}

func TestParsePatternErrors(t *testing.T) {
	cases := []string{
		"[volume]\n10G\n[block_sizes]\n4\n",
		"[devices]\n/dev/sdb\n[volume]\n10T\n[block_sizes]\n4\n",
		"[devices]\n/dev/sdb\n[volume]\nG\n[block_sizes]\n4\n",
		"[devices]\n/dev/sdb\n[volume]\n1m\n[block_sizes]\n4 x\n",
	}
	for _, c := range cases {
		if _, err := ParsePattern(strings.NewReader(c)); lrc.CodeOf(err) != lrc.HarnessFailure {
			t.Errorf("%q: expected HarnessFailure, got %v", c, err)
		}
	}
}

func TestVolumeSectors(t *testing.T) {
	tests := []struct {
		v     string
		disks int
		want  int64
	}{
		{"10G", 8, 8 * 2 * 1024 * 1024 * 10},
		{"512m", 4, 4 * 2 * 1024 * 512},
		{"100K", 3, 3 * 2 * 100},
	}
	for _, tc := range tests {
		v, err := ParseVolume(tc.v)
		if err != nil {
			t.Fatal(err)
		}
		if got := v.Sectors(tc.disks); got != tc.want {
			t.Errorf("%s over %d disks: got %d, want %d", tc.v, tc.disks, got, tc.want)
		}
	}
}

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan("14 lrc groups=3 length=3 global_s=1", 16)
	if err != nil {
		t.Fatal(err)
	}
	want := Plan{Disks: 14, Algorithm: "lrc", Kind: SearchedScheme, Groups: 3, Length: 3, GlobalS: 1}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}
	if q := p.Query(); q[lrc.FieldDisks] != 14 || q[lrc.FieldGroups] != 3 {
		t.Errorf("got query %v", q)
	}

	p, err = ParsePlan("8 lrc scheme=111s1222s2333s3eg", 8)
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind != ExplicitScheme || p.Scheme != "111s1222s2333s3eg" {
		t.Errorf("got %+v", p)
	}
}

func TestParsePlanErrors(t *testing.T) {
	cases := []string{
		"8",
		"x raid6",
		"8 lrc groups=2",
		"8 lrc groups=2 length=0",
		"8 lrc scheme=",
		"8 lrc scheme",
		"9 raid6",
	}
	for _, c := range cases {
		if _, err := ParsePlan(c, 8); lrc.CodeOf(err) != lrc.HarnessFailure {
			t.Errorf("%q: expected HarnessFailure, got %v", c, err)
		}
	}
	_, err := ParsePlan("9 raid6", 8)
	if err == nil || !strings.Contains(err.Error(), "partitions < disks") {
		t.Errorf("expected partitions < disks, got %v", err)
	}
}

func TestTableLine(t *testing.T) {
	p := Plan{Disks: 3, Algorithm: "lrc"}
	got := TableLine(p, Volume{Size: 1, Unit: 'G'}, 8, []string{"/dev/sdb", "/dev/sdc", "/dev/sdd", "/dev/sde"})
	want := "0 6291456 insane lrc 3 8 recover 1 /dev/sdb /dev/sdc /dev/sdd\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
