package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB cap for corpus entries

// deckSeeds are minimal hand-written decks covering the syntax corners:
// continuations, comments, every device letter, scoping and directives.
var deckSeeds = []string{
	"",
	"* comment only\n",
	"R1 1 2 1k\n",
	"V1 in 0 DC 1.8 $ supply\n",
	"M1 d g s b nmos w=1u l=0.18u\n",
	"C1 out 0\n+ 10p\n",
	".param vdd='1.8*2'\n",
	".subckt inv in out\nM1 out in 0 0 nmos\n.ends\nX1 a b inv\n",
	".subckt loop a\nX1 a loop\n.ends\n",
	".model nmos NMOS vth=0.7\n.include 'models.lib'\n",
	"Q1 c b e / pnp_lv\nD1 a k dclamp\n",
	".SUBCKT\n.ends extra\n+ dangling continuation\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range deckSeeds {
		f.Add([]byte(seed))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds walks the repository testdata tree and adds every
// netlist file as a corpus entry. Missing testdata is fine; the inline
// seeds above always apply.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".sp", ".cir", ".cdl", ".net":
		default:
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
