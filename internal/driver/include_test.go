package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"spinet/internal/diag"
	"spinet/internal/driver"
	"spinet/internal/netlist"
)

func hasCode(t *testing.T, bag *diag.Bag, code diag.Code) bool {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestParseFile_ResolvesInclude(t *testing.T) {
	dir := t.TempDir()
	writeDeck(t, dir, "lib.sp", `
.subckt inv in out
M1 out in 0 0 nmos_lv
M2 out in vdd vdd pmos_lv
.ends
.model nmos_lv nmos vto=0.5
.param vdd=1.8
`)
	path := writeDeck(t, dir, "deck.sp", ".include lib.sp\nX1 a b inv\n")

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("Expected a clean parse, got %v", res.Bag.Items())
	}

	sub, ok := res.Circuit.Subckt("inv")
	if !ok {
		t.Fatal("Expected subckt inv merged from the include")
	}
	if len(sub.Components) != 2 {
		t.Errorf("Expected 2 components in inv, got %d", len(sub.Components))
	}
	if _, ok := res.Circuit.Models["nmos_lv"]; !ok {
		t.Error("Expected model nmos_lv merged from the include")
	}
	if got := res.Circuit.Params["vdd"]; got != "1.8" {
		t.Errorf("Expected param vdd=1.8 merged, got %q", got)
	}

	if len(res.IncludePaths) != 1 {
		t.Fatalf("Expected 1 include read, got %v", res.IncludePaths)
	}
	if !filepath.IsAbs(res.IncludePaths[0]) {
		t.Errorf("Expected an absolute include path, got %q", res.IncludePaths[0])
	}
	if got := filepath.Base(res.IncludePaths[0]); got != "lib.sp" {
		t.Errorf("Expected lib.sp resolved, got %q", got)
	}
}

func TestParseFile_IncludeDirs(t *testing.T) {
	libDir := t.TempDir()
	writeDeck(t, libDir, "models.lib", ".model tt_nmos nmos vto=0.48\n")

	deckDir := t.TempDir()
	path := writeDeck(t, deckDir, "deck.sp", ".include models.lib\nM1 d g s b tt_nmos\n")

	res, err := driver.ParseFile(path, driver.Options{IncludeDirs: []string{libDir}})
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if _, ok := res.Circuit.Models["tt_nmos"]; !ok {
		t.Error("Expected the model found through the include search path")
	}
	if hasCode(t, res.Bag, diag.IOIncludeNotFound) {
		t.Errorf("Expected the include located, got %v", res.Bag.Items())
	}
}

func TestParseFile_MissingInclude(t *testing.T) {
	dir := t.TempDir()
	path := writeDeck(t, dir, "deck.sp", ".include absent.lib\nR1 1 2 1k\n")

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("Expected a missing include to stay in-band, got %v", err)
	}
	if !hasCode(t, res.Bag, diag.IOIncludeNotFound) {
		t.Errorf("Expected an IOIncludeNotFound warning, got %v", res.Bag.Items())
	}
	if res.Bag.HasErrors() {
		t.Errorf("Expected a warning only, got %v", res.Bag.Items())
	}
	if len(res.Circuit.Components) != 1 {
		t.Errorf("Expected the deck still parsed, got %d components", len(res.Circuit.Components))
	}
}

func TestParseFile_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	path := writeDeck(t, dir, "a.sp", ".include b.sp\n.subckt cell_a p\nR1 p 0 1k\n.ends\n")
	writeDeck(t, dir, "b.sp", ".include a.sp\n.subckt cell_b p\nC1 p 0 1p\n.ends\n")

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if !hasCode(t, res.Bag, diag.IOIncludeCycle) {
		t.Errorf("Expected an IOIncludeCycle warning, got %v", res.Bag.Items())
	}
	if _, ok := res.Circuit.Subckt("cell_a"); !ok {
		t.Error("Expected cell_a from the root deck")
	}
	if _, ok := res.Circuit.Subckt("cell_b"); !ok {
		t.Error("Expected cell_b merged before the cycle was cut")
	}
	if len(res.IncludePaths) != 1 {
		t.Errorf("Expected only b.sp read, got %v", res.IncludePaths)
	}
}

func TestParseFile_SkipIncludes(t *testing.T) {
	dir := t.TempDir()
	writeDeck(t, dir, "lib.sp", ".subckt inv in out\nM1 out in 0 0 nmos\n.ends\n")
	path := writeDeck(t, dir, "deck.sp", ".include lib.sp\nX1 a b inv\n")

	res, err := driver.ParseFile(path, driver.Options{SkipIncludes: true})
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(res.Circuit.Includes) != 1 {
		t.Errorf("Expected the include recorded, got %v", res.Circuit.Includes)
	}
	if len(res.IncludePaths) != 0 {
		t.Errorf("Expected no include files read, got %v", res.IncludePaths)
	}
	if _, ok := res.Circuit.Subckt("inv"); ok {
		t.Error("Expected inv absent when includes are skipped")
	}
}

func TestParseFile_NestedIncludes(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "cells")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	// two.sp sits next to one.sp; its path must resolve relative to the
	// file that includes it, not relative to the root deck.
	writeDeck(t, sub, "one.sp", ".include two.sp\n.subckt one_cell p\nR1 p 0 1k\n.ends\n")
	writeDeck(t, sub, "two.sp", ".subckt two_cell p\nC1 p 0 1p\n.ends\n")
	path := writeDeck(t, dir, "deck.sp", ".include cells/one.sp\nX1 n one_cell\n")

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("Expected a clean parse, got %v", res.Bag.Items())
	}
	if _, ok := res.Circuit.Subckt("one_cell"); !ok {
		t.Error("Expected one_cell from the first include")
	}
	if _, ok := res.Circuit.Subckt("two_cell"); !ok {
		t.Error("Expected two_cell from the nested include")
	}

	if len(res.IncludePaths) != 2 {
		t.Fatalf("Expected 2 includes read, got %v", res.IncludePaths)
	}
	wantOrder := []string{"one.sp", "two.sp"}
	for i, want := range wantOrder {
		if got := filepath.Base(res.IncludePaths[i]); got != want {
			t.Errorf("Include %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestParseFile_QuotedLibInclude(t *testing.T) {
	dir := t.TempDir()
	writeDeck(t, dir, "models.lib", ".model tt_nmos nmos vto=0.5\n")
	path := writeDeck(t, dir, "deck.sp", ".lib 'models.lib' tt\nM1 d g s b tt_nmos\n")

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if _, ok := res.Circuit.Models["tt_nmos"]; !ok {
		t.Errorf("Expected the quoted .lib target resolved, diagnostics: %v", res.Bag.Items())
	}
}

func TestParseFile_IncludeOverridesRoot(t *testing.T) {
	dir := t.TempDir()
	writeDeck(t, dir, "lib.sp", ".subckt buf a y\nC1 a y 1p\nC2 y 0 1p\n.ends\n")
	path := writeDeck(t, dir, "deck.sp", `
.subckt buf a y
R1 a y 1k
.ends
.include lib.sp
X1 in out buf
`)

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	sub, ok := res.Circuit.Subckt("buf")
	if !ok {
		t.Fatal("Expected subckt buf defined")
	}
	if len(sub.Components) != 2 {
		t.Fatalf("Expected the included definition to win, got %d components", len(sub.Components))
	}
	if got := sub.Components[0].Kind; got != netlist.KindCapacitor {
		t.Errorf("Expected the included capacitor body, got %v", got)
	}
}

func TestParseFile_IncludeComponentsNotMerged(t *testing.T) {
	dir := t.TempDir()
	writeDeck(t, dir, "lib.sp", "R99 x y 1k\n.model fast_n nmos vto=0.4\n")
	path := writeDeck(t, dir, "deck.sp", ".include lib.sp\nR1 1 2 1k\n")

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(res.Circuit.Components) != 1 {
		t.Errorf("Expected only the root deck's components, got %d", len(res.Circuit.Components))
	}
	if _, ok := res.Circuit.Models["fast_n"]; !ok {
		t.Error("Expected the include's model merged even though its components are not")
	}
}
